package settlement

import (
	"math"
	"sort"
	"time"

	"github.com/givingwi/chicken-settlement/internal/models"
)

// SummarizeByItem groups the records by item and sums quantity and subtotal.
// The average unit price is the simple mean of the per-record unit prices.
// Results are sorted by total amount descending; ties keep the order in
// which the items first appeared in the input.
func SummarizeByItem(records []models.SalesRecord) []models.ItemSummary {
	type itemAcc struct {
		quantity  float64
		amount    float64
		priceSum  float64
		saleCount int
	}

	acc := make(map[string]*itemAcc)
	order := make([]string, 0)

	for _, record := range records {
		a, ok := acc[record.Item]
		if !ok {
			a = &itemAcc{}
			acc[record.Item] = a
			order = append(order, record.Item)
		}
		a.quantity += record.Quantity
		a.amount += record.Subtotal
		a.priceSum += record.UnitPrice
		a.saleCount++
	}

	summaries := make([]models.ItemSummary, 0, len(order))
	for _, item := range order {
		a := acc[item]
		summaries = append(summaries, models.ItemSummary{
			Item:             item,
			TotalQuantity:    round2(a.quantity),
			TotalAmount:      round2(a.amount),
			AverageUnitPrice: round2(a.priceSum / float64(a.saleCount)),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalAmount > summaries[j].TotalAmount
	})

	return summaries
}

// SummarizeByDay groups the records by calendar date and sums quantity and
// subtotal, sorted by date ascending.
func SummarizeByDay(records []models.SalesRecord) []models.DailySummary {
	type dayAcc struct {
		quantity float64
		amount   float64
	}

	acc := make(map[time.Time]*dayAcc)
	for _, record := range records {
		a, ok := acc[record.Date]
		if !ok {
			a = &dayAcc{}
			acc[record.Date] = a
		}
		a.quantity += record.Quantity
		a.amount += record.Subtotal
	}

	summaries := make([]models.DailySummary, 0, len(acc))
	for date, a := range acc {
		summaries = append(summaries, models.DailySummary{
			Date:          date,
			TotalQuantity: round2(a.quantity),
			TotalAmount:   round2(a.amount),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date.Before(summaries[j].Date)
	})

	return summaries
}

// ComputeTotals derives the period-level settlement figures in a single
// pass. The empty set yields all-zero totals; the ratio and average
// divisions are explicitly guarded so a division by zero can never leak
// into a report.
func ComputeTotals(records []models.SalesRecord) models.SettlementTotals {
	totals := models.SettlementTotals{}
	distinct := make(map[string]struct{})

	for _, record := range records {
		totals.TotalQuantity += record.Quantity
		totals.TotalAmount += record.Subtotal
		totals.TotalCost += record.CostSubtotal
		totals.OrderCount++
		distinct[record.Item] = struct{}{}
	}
	totals.DistinctItemCount = len(distinct)

	if totals.TotalQuantity > 0 {
		totals.AverageUnitPrice = round2(totals.TotalAmount / totals.TotalQuantity)
		totals.AverageUnitCost = round2(totals.TotalCost / totals.TotalQuantity)
	}
	if totals.TotalAmount > 0 {
		totals.CostRatio = round4(totals.TotalCost / totals.TotalAmount)
	}

	totals.TotalAmount = round2(totals.TotalAmount)
	totals.TotalCost = round2(totals.TotalCost)
	totals.AmountPayable = totals.TotalCost
	totals.Profit = round2(totals.TotalAmount - totals.TotalCost)

	return totals
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
