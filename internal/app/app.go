package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/exporter"
	"salescli/internal/validation"
)

// Runner wires the three pipeline stages together: load the two CSV
// inputs, aggregate them into the report, and export the workbook and
// HTML summary. One Run per invocation; no retries, no partial output.
type Runner struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
}

// NewRunner creates a pipeline runner
func NewRunner(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		paths:  paths,
		logger: logger,
	}
}

// Run executes the pipeline once
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	r.logger.InfoContext(ctx, "pipeline starting",
		slog.String("transactions", r.paths.TransactionsCSV),
		slog.String("customers", r.paths.CustomersCSV),
		slog.String("output_dir", r.paths.OutputDir))

	// Fail fast on unreadable inputs or an unwritable output directory
	validator := validation.NewFileValidator(r.logger)
	if err := validator.ValidateCSVFile(r.paths.TransactionsCSV); err != nil {
		return fmt.Errorf("transactions input: %w", err)
	}
	if err := validator.ValidateCSVFile(r.paths.CustomersCSV); err != nil {
		return fmt.Errorf("customers input: %w", err)
	}
	if err := validator.ValidateOutputDirectory(r.paths.OutputDir); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	// Load
	loadStart := time.Now()
	loader := dataprocessing.NewLoader(r.logger)
	txns, err := loader.LoadTransactions(ctx, r.paths.TransactionsCSV)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	customers, err := loader.LoadCustomers(ctx, r.paths.CustomersCSV)
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	r.logger.InfoContext(ctx, "load stage complete",
		slog.Duration("elapsed", time.Since(loadStart)))

	// Aggregate
	aggStart := time.Now()
	aggregator := dataprocessing.NewAggregator(r.logger, dataprocessing.AggregatorConfig{
		TopProducts: r.cfg.Reports.TopProducts,
	})
	report := aggregator.Aggregate(ctx, txns, customers)
	r.logger.InfoContext(ctx, "aggregate stage complete",
		slog.Duration("elapsed", time.Since(aggStart)))

	// Export
	exportStart := time.Now()
	excel := exporter.NewExcelExporter(r.logger)
	if err := excel.Export(ctx, report, r.paths.DashboardXLSX); err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}

	html, err := exporter.NewHTMLExporter(r.logger)
	if err != nil {
		return fmt.Errorf("export summary: %w", err)
	}
	if err := html.Export(ctx, report, r.paths.SummaryHTML); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}

	if r.cfg.Reports.CSVBreakdowns {
		csvWriter := exporter.NewCSVWriter(r.paths.OutputDir, r.logger)
		if err := csvWriter.WriteBreakdowns(report); err != nil {
			return fmt.Errorf("export csv breakdowns: %w", err)
		}
	}
	r.logger.InfoContext(ctx, "export stage complete",
		slog.Duration("elapsed", time.Since(exportStart)))

	r.logger.InfoContext(ctx, "pipeline complete",
		slog.Duration("elapsed", time.Since(start)),
		slog.String("excel", r.paths.DashboardXLSX),
		slog.String("html", r.paths.SummaryHTML))

	return nil
}
