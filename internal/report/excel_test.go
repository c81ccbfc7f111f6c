package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/givingwi/chicken-settlement/internal/models"
)

func sampleReport() *models.SettlementReport {
	d1 := time.Date(2025, 4, 29, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	return &models.SettlementReport{
		Period: "2025-04-29 至 2025-05-12",
		Window: models.PeriodWindow{Start: d1, End: d1.AddDate(0, 0, 13)},
		Totals: models.SettlementTotals{
			TotalQuantity:     13,
			TotalAmount:       2240,
			TotalCost:         1115,
			OrderCount:        3,
			DistinctItemCount: 2,
			AverageUnitPrice:  172.31,
			AverageUnitCost:   85.77,
			AmountPayable:     1115,
			CostRatio:         0.4978,
			Profit:            1125,
		},
		ItemSummaries: []models.ItemSummary{
			{Item: "雞排", TotalQuantity: 10, TotalAmount: 1700, AverageUnitPrice: 170},
			{Item: "雞翅", TotalQuantity: 3, TotalAmount: 540, AverageUnitPrice: 180},
		},
		DailySummaries: []models.DailySummary{
			{Date: d1, TotalQuantity: 8, TotalAmount: 1360},
			{Date: d2, TotalQuantity: 5, TotalAmount: 880},
		},
		Details: []models.SalesRecord{
			{Date: d1, Item: "雞排", Quantity: 8, UnitPrice: 170, UnitCost: 80, Subtotal: 1360, CostSubtotal: 640},
		},
		TextSummary: "text",
		GeneratedAt: time.Date(2025, 5, 13, 9, 0, 0, 0, time.UTC),
	}
}

func TestExcelRenderer_Render(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	dir := t.TempDir()
	renderer := NewExcelRenderer(dir, logger)

	path, err := renderer.Render(sampleReport(), "report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	t.Run("contains all five sheets", func(t *testing.T) {
		sheets := f.GetSheetList()
		assert.ElementsMatch(t, []string{"炸雞對帳摘要", "品項摘要", "每日摘要", "對帳明細", "詳細資料"}, sheets)
	})

	t.Run("summary sheet carries period and payable amount", func(t *testing.T) {
		period, err := f.GetCellValue("炸雞對帳摘要", "B3")
		require.NoError(t, err)
		assert.Equal(t, "2025-04-29 至 2025-05-12", period)

		payable, err := f.GetCellValue("炸雞對帳摘要", "B11")
		require.NoError(t, err)
		assert.Equal(t, "$1115", payable)
	})

	t.Run("item sheet lists summaries under the header row", func(t *testing.T) {
		item, err := f.GetCellValue("品項摘要", "A4")
		require.NoError(t, err)
		assert.Equal(t, "雞排", item)

		amount, err := f.GetCellValue("品項摘要", "C4")
		require.NoError(t, err)
		assert.Equal(t, "1700", amount)
	})

	t.Run("daily sheet formats dates", func(t *testing.T) {
		date, err := f.GetCellValue("每日摘要", "A4")
		require.NoError(t, err)
		assert.Equal(t, "2025-04-29", date)
	})

	t.Run("detail sheet mirrors the records", func(t *testing.T) {
		item, err := f.GetCellValue("詳細資料", "B4")
		require.NoError(t, err)
		assert.Equal(t, "雞排", item)

		subtotal, err := f.GetCellValue("詳細資料", "E4")
		require.NoError(t, err)
		assert.Equal(t, "1360", subtotal)
	})
}

func TestExcelRenderer_DefaultFilename(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	renderer := NewExcelRenderer(t.TempDir(), logger)

	path, err := renderer.Render(sampleReport(), "")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "炸雞對帳報告_20250513_090000.xlsx")
}
