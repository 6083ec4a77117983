package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"salescli/internal/app"
	"salescli/internal/config"
	"salescli/internal/infrastructure"
)

func main() {
	transactions := flag.String("transactions", "", "transactions csv path (defaults to data/transactions.csv relative to executable)")
	customers := flag.String("customers", "", "customers csv path (defaults to data/customers.csv)")
	out := flag.String("out", "", "output directory for the workbook and summary (defaults to output/)")
	topProducts := flag.Int("top", 0, "number of products in the top-products ranking (0 = config value)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *topProducts > 0 {
		cfg.Reports.TopProducts = *topProducts
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	// Flag overrides win over configured locations
	if *transactions != "" {
		paths.TransactionsCSV = *transactions
	}
	if *customers != "" {
		paths.CustomersCSV = *customers
	}
	if *out != "" {
		paths.OutputDir = *out
		paths.DashboardXLSX = filepath.Join(*out, cfg.Reports.ExcelFile)
		paths.SummaryHTML = filepath.Join(*out, cfg.Reports.HTMLFile)
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = filepath.Join(paths.LogsDir, "analyze.log")
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), uuid.NewString())

	runner := app.NewRunner(cfg, paths, logger)
	if err := runner.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
