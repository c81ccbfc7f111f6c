package settlement

import (
	"strconv"
	"strings"
	"time"

	"github.com/givingwi/chicken-settlement/internal/models"
	"go.uber.org/zap"
)

// Header aliases accepted for each logical column. The form responses sheet
// uses the Chinese headers; fixtures and exports sometimes carry English ones.
var (
	dateAliases     = []string{"日期", "date"}
	itemAliases     = []string{"品項", "item"}
	quantityAliases = []string{"數量", "quantity"}
	priceAliases    = []string{"單價", "unit_price"}
)

// onePortionToken is the quantity text the order form emits for a single
// unit; it normalizes to 1 before the positivity check.
const onePortionToken = "一份"

// dateLayouts are tried in order. Single-digit layouts also accept
// zero-padded values, so "2025/4/9" and "2025/04/09" both parse.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2006年1月2日",
	"1/2/2006",
}

// Normalizer turns raw spreadsheet rows into validated sales records.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize validates and types every raw row. Rows with an unparseable
// date, a non-positive or unparseable quantity, or an item outside the
// catalog are dropped; a bad row never aborts the rest of the batch.
// Subtotal and cost subtotal are recomputed from quantity × unit price/cost
// regardless of any subtotal column upstream.
func (n *Normalizer) Normalize(rows []models.RawRow, catalog models.Catalog) []models.SalesRecord {
	records := make([]models.SalesRecord, 0, len(rows))

	for i, row := range rows {
		record, ok := n.normalizeRow(i, row, catalog)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	n.logger.Info("Normalized sales rows",
		zap.Int("input_rows", len(rows)),
		zap.Int("valid_records", len(records)))

	return records
}

func (n *Normalizer) normalizeRow(index int, row models.RawRow, catalog models.Catalog) (models.SalesRecord, bool) {
	rawDate, ok := row.Field(dateAliases...)
	if !ok {
		n.skip(index, "missing date")
		return models.SalesRecord{}, false
	}
	date, err := ParseDate(rawDate)
	if err != nil {
		n.skip(index, "unparseable date", zap.String("value", rawDate))
		return models.SalesRecord{}, false
	}

	item, ok := row.Field(itemAliases...)
	if !ok {
		n.skip(index, "missing item")
		return models.SalesRecord{}, false
	}
	item = strings.TrimSpace(item)

	// Whitelist: only items the catalog knows participate in settlement,
	// even when the row carries its own unit price.
	if !catalog.Has(item) {
		n.skip(index, "unknown item", zap.String("item", item))
		return models.SalesRecord{}, false
	}

	rawQty, ok := row.Field(quantityAliases...)
	if !ok {
		n.skip(index, "missing quantity")
		return models.SalesRecord{}, false
	}
	quantity, err := parseQuantity(rawQty)
	if err != nil || quantity <= 0 {
		n.skip(index, "invalid quantity", zap.String("value", rawQty))
		return models.SalesRecord{}, false
	}

	entry := catalog.Lookup(item)
	unitPrice := entry.Price
	if rawPrice, ok := row.Field(priceAliases...); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(rawPrice), 64); err == nil && v >= 0 {
			unitPrice = v
		}
	}

	return models.SalesRecord{
		Date:         date,
		Item:         item,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		UnitCost:     entry.Cost,
		Subtotal:     quantity * unitPrice,
		CostSubtotal: quantity * entry.Cost,
	}, true
}

func (n *Normalizer) skip(index int, reason string, fields ...zap.Field) {
	fields = append([]zap.Field{zap.Int("row", index), zap.String("reason", reason)}, fields...)
	n.logger.Debug("Skipping malformed row", fields...)
}

// ParseDate parses one of the accepted date formats and truncates any time
// component, returning a plain UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// Form responses may append a time of day; only the date part matters.
	if i := strings.IndexAny(s, " \t"); i > 0 {
		s = s[:i]
	}

	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseQuantity converts quantity text to a number. The "one portion" token
// becomes 1; everything else must parse numerically.
func parseQuantity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, onePortionToken, "1")
	return strconv.ParseFloat(s, 64)
}
