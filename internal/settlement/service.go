package settlement

import (
	"context"
	"fmt"

	"github.com/givingwi/chicken-settlement/internal/models"
	"go.uber.org/zap"
)

// DataSource supplies the raw sales rows, typically the shared Google Sheet.
// Timeouts and retries are the source's own concern.
type DataSource interface {
	FetchRows(ctx context.Context) ([]models.RawRow, error)
}

// CatalogProvider loads the per-item cost/price table. The returned catalog
// is treated as an immutable snapshot for the duration of one run.
type CatalogProvider interface {
	Load() (models.Catalog, error)
}

// Service ties the data source, the catalog and the report builder together
// into the settlement operation the front ends invoke.
type Service struct {
	source  DataSource
	catalog CatalogProvider
	builder *Builder
	logger  *zap.Logger
}

// NewService creates a new settlement service.
func NewService(source DataSource, catalog CatalogProvider, builder *Builder, logger *zap.Logger) *Service {
	return &Service{
		source:  source,
		catalog: catalog,
		builder: builder,
		logger:  logger,
	}
}

// SettleRange fetches the current data, loads the catalog snapshot and
// builds the report for the given ISO date range.
func (s *Service) SettleRange(ctx context.Context, start, end string) (*models.SettlementReport, error) {
	window, err := NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	return s.Settle(ctx, window)
}

// Settle builds the settlement report for the given window.
func (s *Service) Settle(ctx context.Context, window models.PeriodWindow) (*models.SettlementReport, error) {
	if !window.Valid() {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}

	catalog, err := s.catalog.Load()
	if err != nil {
		s.logger.Error("Failed to load product catalog", zap.Error(err))
		return nil, fmt.Errorf("failed to load product catalog: %w", err)
	}

	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch sales rows", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
	}

	return s.builder.BuildReport(rows, catalog, window)
}
