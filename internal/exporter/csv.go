package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salescli/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality rooted at the output directory
type CSVWriter struct {
	outputDir string
	logger    *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(outputDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{outputDir: outputDir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options, overwriting
// any existing file.
func (w *CSVWriter) WriteCSV(filename string, options WriteOptions) error {
	fullPath := w.resolvePath(filename)

	w.logger.Info("Writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteSimpleCSV writes a simple CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filename string, headers []string, records [][]string) error {
	return w.WriteCSV(filename, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteBreakdowns writes each breakdown table of the report as its own CSV
// file in the output directory.
func (w *CSVWriter) WriteBreakdowns(report *domain.Report) error {
	var monthly [][]string
	for _, row := range report.Monthly {
		monthly = append(monthly, []string{row.Month, formatFloat(row.Revenue), formatInt(row.Orders)})
	}
	if err := w.WriteSimpleCSV("monthly_revenue.csv", []string{"Month", "Revenue", "Orders"}, monthly); err != nil {
		return fmt.Errorf("failed to write monthly breakdown: %w", err)
	}

	var products [][]string
	for _, row := range report.TopProducts {
		products = append(products, []string{row.Product, formatInt64(row.UnitsSold), formatFloat(row.Revenue)})
	}
	if err := w.WriteSimpleCSV("top_products.csv", []string{"Product", "UnitsSold", "Revenue"}, products); err != nil {
		return fmt.Errorf("failed to write top products breakdown: %w", err)
	}

	var segments [][]string
	for _, row := range report.SegmentChannel {
		segments = append(segments, []string{row.Segment, row.Channel, formatFloat(row.Revenue), formatInt(row.Orders)})
	}
	if err := w.WriteSimpleCSV("segment_channel.csv", []string{"Segment", "Channel", "Revenue", "Orders"}, segments); err != nil {
		return fmt.Errorf("failed to write segment/channel breakdown: %w", err)
	}

	var split [][]string
	for _, row := range report.NewReturning {
		split = append(split, []string{
			row.Month,
			formatFloat(row.NewRevenue),
			formatInt(row.NewOrders),
			formatFloat(row.ReturningRevenue),
			formatInt(row.ReturningOrders),
		})
	}
	if err := w.WriteSimpleCSV("new_returning.csv",
		[]string{"Month", "NewRevenue", "NewOrders", "ReturningRevenue", "ReturningOrders"}, split); err != nil {
		return fmt.Errorf("failed to write new/returning breakdown: %w", err)
	}

	var cohorts [][]string
	for _, row := range report.Cohorts {
		cohorts = append(cohorts, []string{row.CohortMonth, row.Month, formatFloat(row.Revenue)})
	}
	if err := w.WriteSimpleCSV("cohorts.csv", []string{"CohortMonth", "Month", "Revenue"}, cohorts); err != nil {
		return fmt.Errorf("failed to write cohort breakdown: %w", err)
	}

	return nil
}

// resolvePath resolves a filename to the output directory
func (w *CSVWriter) resolvePath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(w.outputDir, filename)
}
