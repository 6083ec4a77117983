package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// Sheet names used in the dashboard workbook
const (
	SheetDashboard      = "Dashboard"
	SheetMonthly        = "MonthlyRevenue"
	SheetTopProducts    = "TopProducts"
	SheetSegmentChannel = "SegmentChannel"
	SheetNewReturning   = "NewReturning"
	SheetCohorts        = "Cohorts"
	SheetTransactions   = "Transactions"
)

// ExcelExporter renders a report into an Excel workbook: one sheet per
// breakdown table plus a Dashboard sheet with KPI cards and charts.
type ExcelExporter struct {
	logger *slog.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{logger: logger}
}

// Export writes the workbook to path, overwriting any existing file
func (e *ExcelExporter) Export(ctx context.Context, report *domain.Report, path string) error {
	e.logger.InfoContext(ctx, "writing Excel dashboard",
		slog.String("path", path),
		slog.Int("transaction_count", len(report.Transactions)))

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the dashboard so it opens first
	if err := f.SetSheetName("Sheet1", SheetDashboard); err != nil {
		return fmt.Errorf("failed to rename dashboard sheet: %w", err)
	}

	if err := e.writeMonthlySheet(f, report); err != nil {
		return err
	}
	if err := e.writeTopProductsSheet(f, report); err != nil {
		return err
	}
	if err := e.writeSegmentChannelSheet(f, report); err != nil {
		return err
	}
	if err := e.writeNewReturningSheet(f, report); err != nil {
		return err
	}
	if err := e.writeCohortsSheet(f, report); err != nil {
		return err
	}
	if err := e.writeTransactionsSheet(f, report); err != nil {
		return err
	}
	if err := e.writeDashboard(f, report); err != nil {
		return err
	}

	index, err := f.GetSheetIndex(SheetDashboard)
	if err != nil {
		return fmt.Errorf("failed to find dashboard sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := f.SaveAs(path); err != nil {
		return errors.NewIOError("failed to save Excel dashboard", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "Excel dashboard written", slog.String("path", path))
	return nil
}

// writeSheet creates a sheet and fills it with a header row and data rows
func (e *ExcelExporter) writeSheet(f *excelize.File, sheet string, headers []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers for %s: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}

	return nil
}

func (e *ExcelExporter) writeMonthlySheet(f *excelize.File, report *domain.Report) error {
	rows := make([][]interface{}, 0, len(report.Monthly))
	for _, row := range report.Monthly {
		rows = append(rows, []interface{}{row.Month, row.Revenue, row.Orders})
	}
	return e.writeSheet(f, SheetMonthly, []interface{}{"Month", "Revenue", "Orders"}, rows)
}

func (e *ExcelExporter) writeTopProductsSheet(f *excelize.File, report *domain.Report) error {
	rows := make([][]interface{}, 0, len(report.TopProducts))
	for _, row := range report.TopProducts {
		rows = append(rows, []interface{}{row.Product, row.UnitsSold, row.Revenue})
	}
	return e.writeSheet(f, SheetTopProducts, []interface{}{"Product", "UnitsSold", "Revenue"}, rows)
}

func (e *ExcelExporter) writeSegmentChannelSheet(f *excelize.File, report *domain.Report) error {
	rows := make([][]interface{}, 0, len(report.SegmentChannel))
	for _, row := range report.SegmentChannel {
		rows = append(rows, []interface{}{row.Segment, row.Channel, row.Revenue, row.Orders})
	}
	return e.writeSheet(f, SheetSegmentChannel, []interface{}{"Segment", "Channel", "Revenue", "Orders"}, rows)
}

func (e *ExcelExporter) writeNewReturningSheet(f *excelize.File, report *domain.Report) error {
	rows := make([][]interface{}, 0, len(report.NewReturning))
	for _, row := range report.NewReturning {
		rows = append(rows, []interface{}{
			row.Month, row.NewRevenue, row.NewOrders, row.ReturningRevenue, row.ReturningOrders,
		})
	}
	return e.writeSheet(f, SheetNewReturning,
		[]interface{}{"Month", "NewRevenue", "NewOrders", "ReturningRevenue", "ReturningOrders"}, rows)
}

func (e *ExcelExporter) writeCohortsSheet(f *excelize.File, report *domain.Report) error {
	rows := make([][]interface{}, 0, len(report.Cohorts))
	for _, row := range report.Cohorts {
		rows = append(rows, []interface{}{row.CohortMonth, row.Month, row.Revenue})
	}
	return e.writeSheet(f, SheetCohorts, []interface{}{"CohortMonth", "Month", "Revenue"}, rows)
}

func (e *ExcelExporter) writeTransactionsSheet(f *excelize.File, report *domain.Report) error {
	rows := make([][]interface{}, 0, len(report.Transactions))
	for _, t := range report.Transactions {
		rows = append(rows, []interface{}{
			t.ID,
			t.Date.Format("2006-01-02"),
			t.CustomerID,
			t.Product,
			t.Quantity,
			t.UnitPrice,
			t.Amount(),
			t.Currency,
			t.Segment,
			t.Channel,
			string(t.CustomerType),
		})
	}
	return e.writeSheet(f, SheetTransactions, []interface{}{
		"TxnID", "Date", "CustomerID", "Product", "Quantity", "UnitPrice",
		"Amount", "Currency", "Segment", "Channel", "CustomerType",
	}, rows)
}

// writeDashboard fills the dashboard sheet with KPI cards and charts
func (e *ExcelExporter) writeDashboard(f *excelize.File, report *domain.Report) error {
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return fmt.Errorf("failed to create label style: %w", err)
	}
	currencyFmt := "$#,##0.00"
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}
	percentFmt := "0.0%"
	percentStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &percentFmt})
	if err != nil {
		return fmt.Errorf("failed to create percent style: %w", err)
	}

	f.SetCellValue(SheetDashboard, "A1", "Sales & Transaction Dashboard")
	f.SetCellStyle(SheetDashboard, "A1", "A1", titleStyle)

	f.SetCellValue(SheetDashboard, "A3", "Generated:")
	f.SetCellStyle(SheetDashboard, "A3", "A3", labelStyle)
	f.SetCellValue(SheetDashboard, "B3", report.KPIs.GeneratedAt.Format(time.DateTime))

	// KPI cards
	kpiRows := []struct {
		label string
		value interface{}
		style int
	}{
		{"Total Revenue", report.KPIs.TotalRevenue, currencyStyle},
		{"Orders", report.KPIs.Orders, 0},
		{"Customers", report.KPIs.Customers, 0},
		{"Average Order Value (AOV)", report.KPIs.AOV, currencyStyle},
		{"Repeat Order Rate", report.KPIs.RepeatRate, percentStyle},
	}
	for i, kpi := range kpiRows {
		row := 5 + i
		labelCell := fmt.Sprintf("A%d", row)
		valueCell := fmt.Sprintf("B%d", row)
		f.SetCellValue(SheetDashboard, labelCell, kpi.label)
		f.SetCellStyle(SheetDashboard, labelCell, labelCell, labelStyle)
		f.SetCellValue(SheetDashboard, valueCell, kpi.value)
		if kpi.style != 0 {
			f.SetCellStyle(SheetDashboard, valueCell, valueCell, kpi.style)
		}
	}

	f.SetColWidth(SheetDashboard, "A", "A", 28)
	f.SetColWidth(SheetDashboard, "B", "B", 18)

	// Helper table with combined segment-channel labels for the bar chart
	f.SetCellValue(SheetDashboard, "A12", "Segment-Channel")
	f.SetCellStyle(SheetDashboard, "A12", "A12", labelStyle)
	f.SetCellValue(SheetDashboard, "B12", "Revenue")
	f.SetCellStyle(SheetDashboard, "B12", "B12", labelStyle)

	segRows := report.SegmentChannel
	if len(segRows) > 10 {
		segRows = segRows[:10]
	}
	for i, row := range segRows {
		f.SetCellValue(SheetDashboard, fmt.Sprintf("A%d", 13+i), row.Segment+" - "+row.Channel)
		f.SetCellValue(SheetDashboard, fmt.Sprintf("B%d", 13+i), row.Revenue)
	}

	return e.addCharts(f, report, len(segRows))
}

// addCharts inserts the revenue line, top products column, and
// segment/channel bar charts into the dashboard.
func (e *ExcelExporter) addCharts(f *excelize.File, report *domain.Report, segmentRows int) error {
	if len(report.Monthly) > 0 {
		last := len(report.Monthly) + 1
		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       "Revenue",
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetMonthly, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", SheetMonthly, last),
			}},
			Title:  []excelize.RichTextRun{{Text: "Revenue by Month"}},
			Legend: excelize.ChartLegend{Position: "bottom"},
		}
		if err := f.AddChart(SheetDashboard, "D5", chart); err != nil {
			return fmt.Errorf("failed to add revenue chart: %w", err)
		}
	}

	if len(report.TopProducts) > 0 {
		last := len(report.TopProducts) + 1
		chart := &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       "Revenue",
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetTopProducts, last),
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", SheetTopProducts, last),
			}},
			Title:  []excelize.RichTextRun{{Text: "Top Products by Revenue"}},
			Legend: excelize.ChartLegend{Position: "bottom"},
		}
		if err := f.AddChart(SheetDashboard, "D20", chart); err != nil {
			return fmt.Errorf("failed to add top products chart: %w", err)
		}
	}

	if segmentRows > 0 {
		last := 12 + segmentRows
		chart := &excelize.Chart{
			Type: excelize.Bar,
			Series: []excelize.ChartSeries{{
				Name:       "Revenue",
				Categories: fmt.Sprintf("%s!$A$13:$A$%d", SheetDashboard, last),
				Values:     fmt.Sprintf("%s!$B$13:$B$%d", SheetDashboard, last),
			}},
			Title:  []excelize.RichTextRun{{Text: "Revenue by Segment/Channel"}},
			Legend: excelize.ChartLegend{Position: "bottom"},
		}
		if err := f.AddChart(SheetDashboard, "A20", chart); err != nil {
			return fmt.Errorf("failed to add segment/channel chart: %w", err)
		}
	}

	return nil
}
