package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/givingwi/chicken-settlement/internal/models"
	"github.com/givingwi/chicken-settlement/internal/report"
	"github.com/givingwi/chicken-settlement/internal/settlement"
)

// SettlementService builds settlement reports for a date range.
type SettlementService interface {
	SettleRange(ctx context.Context, start, end string) (*models.SettlementReport, error)
}

// PriceStore reads and updates the persisted product price table.
type PriceStore interface {
	Load() (models.Catalog, error)
	Save(entries []models.ProductEntry) error
}

// ExcelRenderer writes a report to an .xlsx file and returns its path.
type ExcelRenderer interface {
	Render(rep *models.SettlementReport, filename string) (string, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	service  SettlementService
	prices   PriceStore
	renderer ExcelRenderer
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service SettlementService, prices PriceStore, renderer ExcelRenderer, logger *zap.Logger) *Handlers {
	return &Handlers{
		service:  service,
		prices:   prices,
		renderer: renderer,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// rangeQuery holds the start/end query parameters of settlement endpoints.
type rangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":  "healthy",
			"service": "chicken-settlement",
		},
	})
}

// GetSettlement handles GET /api/v1/settlement?start=&end=
func (h *Handlers) GetSettlement(c *gin.Context) {
	rep, ok := h.buildReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rep})
}

// GetSettlementText handles GET /api/v1/settlement/text?start=&end=
func (h *Handlers) GetSettlementText(c *gin.Context) {
	rep, ok := h.buildReport(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, rep.TextSummary)
}

// DownloadReport handles GET /api/v1/settlement/report?start=&end= and
// responds with the generated Excel workbook.
func (h *Handlers) DownloadReport(c *gin.Context) {
	rep, ok := h.buildReport(c)
	if !ok {
		return
	}

	path, err := h.renderer.Render(rep, "")
	if err != nil {
		h.logger.Error("Failed to render Excel report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to generate report file",
		})
		return
	}

	filename := "炸雞對帳報告_" + rep.Window.Start.Format("20060102") + "_" + rep.Window.End.Format("20060102") + ".xlsx"
	c.FileAttachment(path, filename)
}

// GetPrices handles GET /api/v1/prices
func (h *Handlers) GetPrices(c *gin.Context) {
	catalog, err := h.prices.Load()
	if err != nil {
		h.logger.Error("Failed to load prices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to load prices",
		})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: catalog})
}

// UpdatePricesRequest is the body of PUT /api/v1/prices.
type UpdatePricesRequest struct {
	Prices map[string]struct {
		Cost  float64 `json:"cost"`
		Price float64 `json:"price"`
	} `json:"prices" binding:"required"`
}

// UpdatePrices handles PUT /api/v1/prices
func (h *Handlers) UpdatePrices(c *gin.Context) {
	var req UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	entries := make([]models.ProductEntry, 0, len(req.Prices))
	for name, p := range req.Prices {
		if p.Cost < 0 || p.Price < 0 {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Error:   "cost and price must be non-negative: " + name,
			})
			return
		}
		entries = append(entries, models.ProductEntry{Name: name, Cost: p.Cost, Price: p.Price})
	}

	if err := h.prices.Save(entries); err != nil {
		h.logger.Error("Failed to save prices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to save prices",
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"updated": len(entries)}})
}

// buildReport runs the settlement for the request's date range and writes
// the error response itself when the run fails.
func (h *Handlers) buildReport(c *gin.Context) (*models.SettlementReport, bool) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "start and end query parameters are required (YYYY-MM-DD)",
		})
		return nil, false
	}

	rep, err := h.service.SettleRange(c.Request.Context(), q.Start, q.End)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, settlement.ErrInvalidRange), errors.Is(err, settlement.ErrInvalidDate):
			status = http.StatusBadRequest
		case errors.Is(err, settlement.ErrDataSource):
			status = http.StatusBadGateway
		}
		h.logger.Error("Settlement failed",
			zap.String("start", q.Start),
			zap.String("end", q.End),
			zap.Error(err))
		c.JSON(status, Response{Success: false, Error: err.Error()})
		return nil, false
	}

	return rep, true
}

var _ ExcelRenderer = (*report.ExcelRenderer)(nil)
