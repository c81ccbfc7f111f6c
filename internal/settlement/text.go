package settlement

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/givingwi/chicken-settlement/internal/models"
)

// The owner reads this text line by line to verify the payment with the
// supplier, so the grouping (date outer, item inner) and the explicit
// quantity × cost arithmetic must stay exactly as they are.

const (
	heavyRule = "=================================================="
	lightRule = "------------------------------"
)

// emptyPeriodSummary is the text body when the window holds no sales.
func emptyPeriodSummary(window models.PeriodWindow) string {
	return fmt.Sprintf("期間：%s\n無炸雞銷售資料", window.Label())
}

type dayItemLine struct {
	item     string
	quantity float64
	unitCost float64
}

type daySection struct {
	date  time.Time
	lines []dayItemLine
}

// buildTextSummary renders the owner-facing reconciliation text: a per-day
// breakdown grouped by item at supplier cost, daily cost totals, a per-item
// cost breakdown, the calculation trail, and the final payable amount.
func buildTextSummary(
	records []models.SalesRecord,
	window models.PeriodWindow,
	itemSummaries []models.ItemSummary,
	dailySummaries []models.DailySummary,
	totals models.SettlementTotals,
	catalog models.Catalog,
) string {
	if len(records) == 0 {
		return emptyPeriodSummary(window)
	}

	days := groupByDayAndItem(records)

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(heavyRule)
	line("🍗 炸雞對帳摘要")
	line(heavyRule)
	line("對帳期間：%s", window.Label())
	line("")

	line("📅 每日明細：")
	line(lightRule)
	for i, day := range days {
		if i > 0 {
			line("")
		}
		line("📅 %s：", day.date.Format("2006-01-02"))
		for _, l := range day.lines {
			line("  %s：%s 份 × %s 元（進價） = %s 元",
				l.item, num(l.quantity), num(l.unitCost), num(l.quantity*l.unitCost))
		}
	}

	line("")
	line("📊 每日總計（進價）：")
	dailyCost := make(map[time.Time]float64)
	for _, record := range records {
		dailyCost[record.Date] += record.CostSubtotal
	}
	for _, day := range dailySummaries {
		line("%s：總計 %s 份，進價 %s 元",
			day.Date.Format("2006-01-02"), num(day.TotalQuantity), num(dailyCost[day.Date]))
	}

	line("")
	line("🍗 品項對帳明細：")
	line(lightRule)
	for _, summary := range itemSummaries {
		cost := catalog.Lookup(summary.Item).Cost
		line("%s：%s 份 × %s 元（進價） = %s 元",
			summary.Item, num(summary.TotalQuantity), num(cost), num(summary.TotalQuantity*cost))
	}

	line("")
	line("🧮 計算式：")
	line(lightRule)
	line("總數量：%s 份", num(totals.TotalQuantity))
	line("應付金額：%s 元", num(totals.TotalCost))
	line("")
	line("金額計算明細：")
	for _, summary := range itemSummaries {
		cost := catalog.Lookup(summary.Item).Cost
		line("  %s：%s 份 × %s 元 = %s 元",
			summary.Item, num(summary.TotalQuantity), num(cost), num(summary.TotalQuantity*cost))
	}

	line("")
	line(heavyRule)
	line("💰 應付金額：%s 元", num(totals.AmountPayable))
	b.WriteString(heavyRule)

	return b.String()
}

// groupByDayAndItem merges the records of each day per item, days ascending,
// items in first-seen order within a day.
func groupByDayAndItem(records []models.SalesRecord) []daySection {
	index := make(map[time.Time]int)
	days := make([]daySection, 0)

	for _, record := range records {
		i, ok := index[record.Date]
		if !ok {
			i = len(days)
			index[record.Date] = i
			days = append(days, daySection{date: record.Date})
		}

		merged := false
		for j := range days[i].lines {
			if days[i].lines[j].item == record.Item {
				days[i].lines[j].quantity += record.Quantity
				merged = true
				break
			}
		}
		if !merged {
			days[i].lines = append(days[i].lines, dayItemLine{
				item:     record.Item,
				quantity: record.Quantity,
				unitCost: record.UnitCost,
			})
		}
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].date.Before(days[j].date)
	})

	return days
}

// num formats an amount without trailing zeros, matching how the owner
// writes figures by hand (10 rather than 10.00, 10.5 kept as is).
func num(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}
