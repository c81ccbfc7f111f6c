package settlement

import (
	"time"

	"github.com/givingwi/chicken-settlement/internal/models"
	"go.uber.org/zap"
)

// Builder orchestrates one settlement run:
// raw rows → normalize → filter → aggregate → format.
type Builder struct {
	normalizer *Normalizer
	logger     *zap.Logger
	now        func() time.Time
}

// NewBuilder creates a new report builder.
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{
		normalizer: NewNormalizer(logger),
		logger:     logger,
		now:        time.Now,
	}
}

// BuildReport computes the settlement report for the given window. It either
// returns a complete report or an error, never a partial one. An empty
// period is not an error: the report comes back with zero totals, empty
// summaries and the "no sales data" text so renderers always have a
// well-formed structure to work with.
func (b *Builder) BuildReport(rows []models.RawRow, catalog models.Catalog, window models.PeriodWindow) (*models.SettlementReport, error) {
	if len(catalog) == 0 {
		return nil, ErrCatalogEmpty
	}

	records := b.normalizer.Normalize(rows, catalog)

	filtered, err := FilterPeriod(records, window)
	if err != nil {
		return nil, err
	}

	if len(filtered) == 0 {
		b.logger.Warn("No sales records in settlement period",
			zap.String("period", window.Label()))
		return &models.SettlementReport{
			Period:         window.Label(),
			Window:         window,
			Totals:         models.SettlementTotals{},
			ItemSummaries:  []models.ItemSummary{},
			DailySummaries: []models.DailySummary{},
			Details:        []models.SalesRecord{},
			TextSummary:    emptyPeriodSummary(window),
			GeneratedAt:    b.now().UTC(),
		}, nil
	}

	itemSummaries := SummarizeByItem(filtered)
	dailySummaries := SummarizeByDay(filtered)
	totals := ComputeTotals(filtered)

	report := &models.SettlementReport{
		Period:         window.Label(),
		Window:         window,
		Totals:         totals,
		ItemSummaries:  itemSummaries,
		DailySummaries: dailySummaries,
		Details:        filtered,
		TextSummary:    buildTextSummary(filtered, window, itemSummaries, dailySummaries, totals, catalog),
		GeneratedAt:    b.now().UTC(),
	}

	b.logger.Info("Settlement report built",
		zap.String("period", report.Period),
		zap.Int("record_count", len(filtered)),
		zap.Float64("total_amount", totals.TotalAmount),
		zap.Float64("amount_payable", totals.AmountPayable))

	return report, nil
}

// BuildReportForRange is the string-date entry point wrapped by the CLI and
// the web handlers. Dates are ISO YYYY-MM-DD.
func (b *Builder) BuildReportForRange(rows []models.RawRow, catalog models.Catalog, start, end string) (*models.SettlementReport, error) {
	window, err := NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	return b.BuildReport(rows, catalog, window)
}
