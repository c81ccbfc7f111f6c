package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/givingwi/chicken-settlement/internal/models"
)

// RenderText produces the headline-style text report: period totals, the
// supplier reconciliation figures, and per-item/per-day listings. This is a
// renderer over an already-built report; the reconciliation arithmetic text
// the owner checks line by line lives in the report's TextSummary.
func RenderText(rep *models.SettlementReport) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	rule := strings.Repeat("=", 60)
	subRule := strings.Repeat("-", 40)

	line(rule)
	line("🍗 炸雞對帳報告")
	line(rule)
	line("對帳期間: %s", rep.Period)
	line("總銷售金額: %s", money(rep.Totals.TotalAmount))
	line("總銷售數量: %s 份", amount(rep.Totals.TotalQuantity))
	line("總訂單數: %d 筆", rep.Totals.OrderCount)
	line("品項種類: %d 種", rep.Totals.DistinctItemCount)
	line("平均單價: $%.2f", rep.Totals.AverageUnitPrice)
	line("")
	line("🍗 炸雞老闆對帳明細:")
	line(subRule)
	line("炸雞老闆應付金額: %s", money(rep.Totals.AmountPayable))
	line("成本比例: %.1f%%", rep.Totals.CostRatio*100)
	line("利潤: %s", money(rep.Totals.Profit))
	line("")

	if len(rep.ItemSummaries) > 0 {
		line("各品項銷售摘要:")
		line(subRule)
		for _, item := range rep.ItemSummaries {
			line("%s: %s 份, %s", item.Item, amount(item.TotalQuantity), money(item.TotalAmount))
		}
		line("")
	}

	if len(rep.DailySummaries) > 0 {
		line("每日銷售摘要:")
		line(subRule)
		for _, day := range rep.DailySummaries {
			line("%s: %s 份, %s", day.Date.Format("2006-01-02"), amount(day.TotalQuantity), money(day.TotalAmount))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// amount formats a figure without trailing zeros.
func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
