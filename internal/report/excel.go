// Package report renders a settlement report into the artifacts the owner
// actually hands over: a styled Excel workbook and a plain-text summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/givingwi/chicken-settlement/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Sheet names mirror the workbook the owner has been reading for years.
const (
	sheetSummary    = "炸雞對帳摘要"
	sheetItems      = "品項摘要"
	sheetDaily      = "每日摘要"
	sheetSettlement = "對帳明細"
	sheetDetails    = "詳細資料"
)

// ExcelRenderer writes settlement reports as Excel workbooks.
type ExcelRenderer struct {
	outputDir string
	logger    *zap.Logger
}

// NewExcelRenderer creates a renderer that writes into outputDir.
func NewExcelRenderer(outputDir string, logger *zap.Logger) *ExcelRenderer {
	return &ExcelRenderer{
		outputDir: outputDir,
		logger:    logger,
	}
}

type workbookStyles struct {
	title   int
	header  int
	tableHd int
	payable int
}

// Render writes the report to an .xlsx file and returns its path. An empty
// filename picks a timestamped default.
func (r *ExcelRenderer) Render(rep *models.SettlementReport, filename string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if filename == "" {
		filename = fmt.Sprintf("炸雞對帳報告_%s.xlsx", rep.GeneratedAt.Format("20060102_150405"))
	}
	path := filepath.Join(r.outputDir, filename)

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return "", fmt.Errorf("failed to create styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return "", fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	r.fillSummarySheet(f, styles, rep)

	sections := []struct {
		name string
		fill func(*excelize.File, workbookStyles, *models.SettlementReport)
	}{
		{sheetItems, r.fillItemSheet},
		{sheetDaily, r.fillDailySheet},
		{sheetSettlement, r.fillSettlementSheet},
		{sheetDetails, r.fillDetailSheet},
	}
	for _, section := range sections {
		if _, err := f.NewSheet(section.name); err != nil {
			return "", fmt.Errorf("failed to create sheet %s: %w", section.name, err)
		}
		section.fill(f, styles, rep)
	}

	if idx, err := f.GetSheetIndex(sheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel report: %w", err)
	}

	r.logger.Info("Excel report written",
		zap.String("path", path),
		zap.String("period", rep.Period))

	return path, nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	}); err != nil {
		return s, err
	}
	if s.tableHd, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"CCCCCC"}},
	}); err != nil {
		return s, err
	}
	if s.payable, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "FF0000"},
	}); err != nil {
		return s, err
	}

	return s, nil
}

func (r *ExcelRenderer) fillSummarySheet(f *excelize.File, styles workbookStyles, rep *models.SettlementReport) {
	sheet := sheetSummary
	r.setCell(f, sheet, "A1", "🍗 炸雞對帳報告")
	f.SetCellStyle(sheet, "A1", "A1", styles.title)
	f.MergeCell(sheet, "A1", "D1")

	r.setCell(f, sheet, "A3", "對帳期間:")
	r.setCell(f, sheet, "B3", rep.Period)
	f.SetCellStyle(sheet, "A3", "A3", styles.header)

	lines := []struct {
		label   string
		value   string
		payable bool
	}{
		{"總銷售金額", money(rep.Totals.TotalAmount), false},
		{"總銷售數量", fmt.Sprintf("%s 份", amount(rep.Totals.TotalQuantity)), false},
		{"總訂單數", fmt.Sprintf("%d 筆", rep.Totals.OrderCount), false},
		{"品項種類", fmt.Sprintf("%d 種", rep.Totals.DistinctItemCount), false},
		{"平均單價", fmt.Sprintf("$%.2f", rep.Totals.AverageUnitPrice), false},
		{"", "", false},
		{"🍗 炸雞老闆應付金額", money(rep.Totals.AmountPayable), true},
		{"成本比例", fmt.Sprintf("%.1f%%", rep.Totals.CostRatio*100), false},
		{"利潤", money(rep.Totals.Profit), false},
	}
	for i, l := range lines {
		row := 5 + i
		r.setCell(f, sheet, fmt.Sprintf("A%d", row), l.label)
		r.setCell(f, sheet, fmt.Sprintf("B%d", row), l.value)
		style := styles.header
		if l.payable {
			style = styles.payable
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), style)
	}

	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "B", 25)
}

func (r *ExcelRenderer) fillItemSheet(f *excelize.File, styles workbookStyles, rep *models.SettlementReport) {
	sheet := sheetItems
	r.setCell(f, sheet, "A1", "各炸雞品項銷售摘要")
	f.SetCellStyle(sheet, "A1", "A1", styles.header)

	headers := []string{"品項", "總數量", "總金額", "平均單價"}
	r.writeTableHeader(f, sheet, 3, headers, styles.tableHd)

	for i, item := range rep.ItemSummaries {
		row := 4 + i
		r.setCell(f, sheet, fmt.Sprintf("A%d", row), item.Item)
		r.setCell(f, sheet, fmt.Sprintf("B%d", row), item.TotalQuantity)
		r.setCell(f, sheet, fmt.Sprintf("C%d", row), item.TotalAmount)
		r.setCell(f, sheet, fmt.Sprintf("D%d", row), item.AverageUnitPrice)
	}

	if n := len(rep.ItemSummaries); n > 0 {
		r.addBarChart(f, sheet, "F3", "各品項銷售金額",
			fmt.Sprintf("%s!$A$4:$A$%d", sheet, 3+n),
			fmt.Sprintf("%s!$C$4:$C$%d", sheet, 3+n))
	}

	f.SetColWidth(sheet, "A", "D", 15)
}

func (r *ExcelRenderer) fillDailySheet(f *excelize.File, styles workbookStyles, rep *models.SettlementReport) {
	sheet := sheetDaily
	r.setCell(f, sheet, "A1", "每日炸雞銷售摘要")
	f.SetCellStyle(sheet, "A1", "A1", styles.header)

	headers := []string{"日期", "總數量", "總金額"}
	r.writeTableHeader(f, sheet, 3, headers, styles.tableHd)

	for i, day := range rep.DailySummaries {
		row := 4 + i
		r.setCell(f, sheet, fmt.Sprintf("A%d", row), day.Date.Format("2006-01-02"))
		r.setCell(f, sheet, fmt.Sprintf("B%d", row), day.TotalQuantity)
		r.setCell(f, sheet, fmt.Sprintf("C%d", row), day.TotalAmount)
	}

	if n := len(rep.DailySummaries); n > 0 {
		r.addBarChart(f, sheet, "F3", "每日銷售金額",
			fmt.Sprintf("%s!$A$4:$A$%d", sheet, 3+n),
			fmt.Sprintf("%s!$C$4:$C$%d", sheet, 3+n))
	}

	f.SetColWidth(sheet, "A", "C", 15)
}

func (r *ExcelRenderer) fillSettlementSheet(f *excelize.File, styles workbookStyles, rep *models.SettlementReport) {
	sheet := sheetSettlement
	r.setCell(f, sheet, "A1", "🍗 炸雞老闆對帳明細")
	f.SetCellStyle(sheet, "A1", "A1", styles.title)
	f.MergeCell(sheet, "A1", "D1")

	lines := []struct {
		label   string
		value   string
		payable bool
	}{
		{"對帳期間", rep.Period, false},
		{"總銷售金額", money(rep.Totals.TotalAmount), false},
		{"成本比例", fmt.Sprintf("%.1f%%", rep.Totals.CostRatio*100), false},
		{"", "", false},
		{"🍗 炸雞老闆應付金額", money(rep.Totals.AmountPayable), true},
		{"利潤", money(rep.Totals.Profit), false},
		{"", "", false},
		{"備註", "此金額為炸雞品項的對帳金額，請確認後付款", false},
	}
	for i, l := range lines {
		row := 3 + i
		r.setCell(f, sheet, fmt.Sprintf("A%d", row), l.label)
		r.setCell(f, sheet, fmt.Sprintf("B%d", row), l.value)
		style := styles.header
		if l.payable {
			style = styles.payable
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), style)
	}

	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "B", 25)
}

func (r *ExcelRenderer) fillDetailSheet(f *excelize.File, styles workbookStyles, rep *models.SettlementReport) {
	sheet := sheetDetails
	r.setCell(f, sheet, "A1", "詳細炸雞銷售資料")
	f.SetCellStyle(sheet, "A1", "A1", styles.header)

	headers := []string{"日期", "品項", "數量", "單價", "小計"}
	r.writeTableHeader(f, sheet, 3, headers, styles.tableHd)

	for i, record := range rep.Details {
		row := 4 + i
		r.setCell(f, sheet, fmt.Sprintf("A%d", row), record.Date.Format("2006-01-02"))
		r.setCell(f, sheet, fmt.Sprintf("B%d", row), record.Item)
		r.setCell(f, sheet, fmt.Sprintf("C%d", row), record.Quantity)
		r.setCell(f, sheet, fmt.Sprintf("D%d", row), record.UnitPrice)
		r.setCell(f, sheet, fmt.Sprintf("E%d", row), record.Subtotal)
	}

	f.SetColWidth(sheet, "A", "E", 15)
}

func (r *ExcelRenderer) writeTableHeader(f *excelize.File, sheet string, row int, headers []string, style int) {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		r.setCell(f, sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func (r *ExcelRenderer) addBarChart(f *excelize.File, sheet, anchor, title, categories, values string) {
	err := f.AddChart(sheet, anchor, &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       title,
				Categories: categories,
				Values:     values,
			},
		},
		Title: []excelize.RichTextRun{{Text: title}},
	})
	if err != nil {
		r.logger.Warn("Failed to add chart",
			zap.String("sheet", sheet),
			zap.Error(err))
	}
}

// setCell sets a cell value, logging instead of failing; one bad cell
// should not lose the whole workbook.
func (r *ExcelRenderer) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		r.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%s", amount(v))
}
