// Package sheets reads the shared sales spreadsheet through Google's public
// CSV export. No API credentials are involved; the sheet only needs
// link-visible access.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/givingwi/chicken-settlement/internal/models"
	"go.uber.org/zap"
)

// Google blocks requests without a browser-looking user agent on some
// export endpoints.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds reader configuration.
type Config struct {
	SheetID string
	GID     string
	Timeout time.Duration
}

// Reader fetches raw sales rows from a public Google Sheet.
type Reader struct {
	cfg     Config
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewReader creates a new sheet reader.
func NewReader(cfg Config, logger *zap.Logger) *Reader {
	if cfg.GID == "" {
		cfg.GID = "0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Reader{
		cfg:     cfg,
		baseURL: "https://docs.google.com",
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// FetchRows downloads the sheet as CSV and returns its rows keyed by header.
func (r *Reader) FetchRows(ctx context.Context) ([]models.RawRow, error) {
	if r.cfg.SheetID == "" {
		return nil, fmt.Errorf("sheet id is not configured")
	}

	url := fmt.Sprintf(
		"%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv&gid=%s",
		r.baseURL, r.cfg.SheetID, r.cfg.GID,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sheet request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet export returned status %d", resp.StatusCode)
	}

	rows, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet CSV: %w", err)
	}

	r.logger.Info("Fetched sales rows from sheet",
		zap.String("sheet_id", r.cfg.SheetID),
		zap.String("gid", r.cfg.GID),
		zap.Int("rows", len(rows)))

	return rows, nil
}

// ParseCSV reads header-keyed rows from CSV data. The first line supplies
// the field names; short or ragged lines are tolerated because form
// responses leave trailing columns blank.
func ParseCSV(data io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []models.RawRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]models.RawRow, 0)
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		row := make(models.RawRow, len(header))
		for i, name := range header {
			if name == "" || i >= len(fields) {
				continue
			}
			value := strings.TrimSpace(fields[i])
			if value != "" {
				row[name] = value
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return rows, nil
}
