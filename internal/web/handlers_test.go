package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/givingwi/chicken-settlement/internal/models"
	"github.com/givingwi/chicken-settlement/internal/settlement"
)

// mockService implements SettlementService for testing
type mockService struct {
	report *models.SettlementReport
	err    error
}

func (m *mockService) SettleRange(_ context.Context, start, end string) (*models.SettlementReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

// mockPriceStore implements PriceStore for testing
type mockPriceStore struct {
	catalog models.Catalog
	saved   []models.ProductEntry
	loadErr error
	saveErr error
}

func (m *mockPriceStore) Load() (models.Catalog, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.catalog, nil
}

func (m *mockPriceStore) Save(entries []models.ProductEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = entries
	return nil
}

// mockRenderer implements ExcelRenderer for testing
type mockRenderer struct {
	path string
	err  error
}

func (m *mockRenderer) Render(_ *models.SettlementReport, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.path, nil
}

func testReport() *models.SettlementReport {
	start := time.Date(2025, 4, 29, 0, 0, 0, 0, time.UTC)
	return &models.SettlementReport{
		Period: "2025-04-29 至 2025-05-12",
		Window: models.PeriodWindow{Start: start, End: start.AddDate(0, 0, 13)},
		Totals: models.SettlementTotals{
			TotalQuantity: 10,
			TotalAmount:   1700,
			TotalCost:     800,
			AmountPayable: 800,
			Profit:        900,
			CostRatio:     0.4706,
		},
		ItemSummaries:  []models.ItemSummary{},
		DailySummaries: []models.DailySummary{},
		Details:        []models.SalesRecord{},
		TextSummary:    "🍗 炸雞對帳摘要",
	}
}

func newTestRouter(service SettlementService, prices PriceStore, renderer ExcelRenderer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger, _ := zap.NewDevelopment()
	return NewRouter(NewHandlers(service, prices, renderer, logger), logger)
}

func perform(router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&mockService{}, &mockPriceStore{}, &mockRenderer{})

	w := perform(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestGetSettlement(t *testing.T) {
	t.Run("returns the report as JSON", func(t *testing.T) {
		router := newTestRouter(&mockService{report: testReport()}, &mockPriceStore{}, &mockRenderer{})

		w := perform(router, http.MethodGet, "/api/v1/settlement?start=2025-04-29&end=2025-05-12", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Success bool                     `json:"success"`
			Data    *models.SettlementReport `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 800.0, resp.Data.Totals.AmountPayable)
	})

	t.Run("missing parameters are a bad request", func(t *testing.T) {
		router := newTestRouter(&mockService{report: testReport()}, &mockPriceStore{}, &mockRenderer{})

		w := perform(router, http.MethodGet, "/api/v1/settlement?start=2025-04-29", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid range maps to a bad request", func(t *testing.T) {
		service := &mockService{err: fmt.Errorf("%w: 2025-05-12 to 2025-04-29", settlement.ErrInvalidRange)}
		router := newTestRouter(service, &mockPriceStore{}, &mockRenderer{})

		w := perform(router, http.MethodGet, "/api/v1/settlement?start=2025-05-12&end=2025-04-29", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("data source failures map to bad gateway", func(t *testing.T) {
		service := &mockService{err: fmt.Errorf("%w: export returned status 403", settlement.ErrDataSource)}
		router := newTestRouter(service, &mockPriceStore{}, &mockRenderer{})

		w := perform(router, http.MethodGet, "/api/v1/settlement?start=2025-04-29&end=2025-05-12", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("unexpected failures map to an internal error", func(t *testing.T) {
		service := &mockService{err: fmt.Errorf("database is locked")}
		router := newTestRouter(service, &mockPriceStore{}, &mockRenderer{})

		w := perform(router, http.MethodGet, "/api/v1/settlement?start=2025-04-29&end=2025-05-12", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetSettlementText(t *testing.T) {
	router := newTestRouter(&mockService{report: testReport()}, &mockPriceStore{}, &mockRenderer{})

	w := perform(router, http.MethodGet, "/api/v1/settlement/text?start=2025-04-29&end=2025-05-12", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "🍗 炸雞對帳摘要")
}

func TestDownloadReport(t *testing.T) {
	t.Run("streams the rendered workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("workbook"), 0644))

		router := newTestRouter(&mockService{report: testReport()}, &mockPriceStore{}, &mockRenderer{path: path})

		w := perform(router, http.MethodGet, "/api/v1/settlement/report?start=2025-04-29&end=2025-05-12", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "workbook", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	})

	t.Run("render failures map to an internal error", func(t *testing.T) {
		router := newTestRouter(&mockService{report: testReport()}, &mockPriceStore{}, &mockRenderer{err: fmt.Errorf("disk full")})

		w := perform(router, http.MethodGet, "/api/v1/settlement/report?start=2025-04-29&end=2025-05-12", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetPrices(t *testing.T) {
	t.Run("returns the stored catalog", func(t *testing.T) {
		store := &mockPriceStore{catalog: models.Catalog{
			"雞排": {Name: "雞排", Cost: 80, Price: 170},
		}}
		router := newTestRouter(&mockService{}, store, &mockRenderer{})

		w := perform(router, http.MethodGet, "/api/v1/prices", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Success bool           `json:"success"`
			Data    models.Catalog `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 170.0, resp.Data["雞排"].Price)
	})

	t.Run("load failures map to an internal error", func(t *testing.T) {
		store := &mockPriceStore{loadErr: fmt.Errorf("database is locked")}
		router := newTestRouter(&mockService{}, store, &mockRenderer{})

		w := perform(router, http.MethodGet, "/api/v1/prices", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestUpdatePrices(t *testing.T) {
	t.Run("saves valid updates", func(t *testing.T) {
		store := &mockPriceStore{}
		router := newTestRouter(&mockService{}, store, &mockRenderer{})

		body := []byte(`{"prices":{"雞排":{"cost":85,"price":175}}}`)
		w := perform(router, http.MethodPut, "/api/v1/prices", body)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, store.saved, 1)
		assert.Equal(t, "雞排", store.saved[0].Name)
		assert.Equal(t, 85.0, store.saved[0].Cost)
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		store := &mockPriceStore{}
		router := newTestRouter(&mockService{}, store, &mockRenderer{})

		body := []byte(`{"prices":{"雞排":{"cost":-1,"price":175}}}`)
		w := perform(router, http.MethodPut, "/api/v1/prices", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, store.saved)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		router := newTestRouter(&mockService{}, &mockPriceStore{}, &mockRenderer{})

		w := perform(router, http.MethodPut, "/api/v1/prices", []byte(`{"prices":`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
