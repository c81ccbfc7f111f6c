package models

import (
	"fmt"
	"time"
)

// RawRow is one loosely-typed row from the upstream spreadsheet. The sheet
// schema drifts (extra columns, renamed headers), so rows are accessed by
// field name instead of a fixed struct.
type RawRow map[string]string

// Field returns the first non-empty value among the given header aliases.
func (r RawRow) Field(aliases ...string) (string, bool) {
	for _, name := range aliases {
		if v, ok := r[name]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// SalesRecord is one validated, normalized sale. Subtotals are always
// recomputed from quantity and the resolved unit price/cost; an upstream
// subtotal column is never trusted.
type SalesRecord struct {
	Date         time.Time `json:"date"`          // 日期, calendar date only
	Item         string    `json:"item"`          // 品項
	Quantity     float64   `json:"quantity"`      // 數量
	UnitPrice    float64   `json:"unit_price"`    // 單價
	UnitCost     float64   `json:"unit_cost"`     // 進價
	Subtotal     float64   `json:"subtotal"`      // 小計 = 數量 × 單價
	CostSubtotal float64   `json:"cost_subtotal"` // 成本小計 = 數量 × 進價
}

// PeriodWindow is the inclusive date range a settlement covers.
type PeriodWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the window, both ends inclusive.
func (w PeriodWindow) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Valid reports whether the window is well-formed (start ≤ end).
func (w PeriodWindow) Valid() bool {
	return !w.Start.After(w.End)
}

// Label formats the window the way the owner reads it, e.g.
// "2025-04-29 至 2025-05-12".
func (w PeriodWindow) Label() string {
	return fmt.Sprintf("%s 至 %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}
