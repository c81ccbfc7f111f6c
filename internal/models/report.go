package models

import "time"

// ItemSummary aggregates the sales of one item over the settlement period.
// AverageUnitPrice is the simple mean of the per-record unit prices, not a
// quantity-weighted mean; the owner's historical reports were computed this
// way and the settlement figures must keep matching them.
type ItemSummary struct {
	Item             string  `json:"item"`
	TotalQuantity    float64 `json:"total_quantity"`
	TotalAmount      float64 `json:"total_amount"`
	AverageUnitPrice float64 `json:"average_unit_price"`
}

// DailySummary aggregates the sales of one calendar day.
type DailySummary struct {
	Date          time.Time `json:"date"`
	TotalQuantity float64   `json:"total_quantity"`
	TotalAmount   float64   `json:"total_amount"`
}

// SettlementTotals are the period-level figures. AmountPayable equals
// TotalCost: the supplier is owed the cost side of every recorded sale.
type SettlementTotals struct {
	TotalQuantity     float64 `json:"total_quantity"`
	TotalAmount       float64 `json:"total_amount"`
	TotalCost         float64 `json:"total_cost"`
	OrderCount        int     `json:"order_count"`
	DistinctItemCount int     `json:"distinct_item_count"`
	AverageUnitPrice  float64 `json:"average_unit_price"`
	AverageUnitCost   float64 `json:"average_unit_cost"`
	AmountPayable     float64 `json:"amount_payable_to_supplier"` // 炸雞老闆應付金額
	CostRatio         float64 `json:"cost_ratio"`
	Profit            float64 `json:"profit"`
}

// SettlementReport is the complete output of one settlement run, consumed by
// the Excel and plain-text renderers. It is never mutated after construction.
type SettlementReport struct {
	Period         string           `json:"period"` // formatted window label
	Window         PeriodWindow     `json:"window"`
	Totals         SettlementTotals `json:"totals"`
	ItemSummaries  []ItemSummary    `json:"item_summaries"`
	DailySummaries []DailySummary   `json:"daily_summaries"`
	Details        []SalesRecord    `json:"details"`
	TextSummary    string           `json:"text_summary"`
	GeneratedAt    time.Time        `json:"generated_at"` // metadata only, not a computation input
}
