// Package config provides centralized configuration management for the
// sales analytics pipeline. It handles loading configuration from multiple
// sources, validation, and path resolution.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml / configs/config.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_* for namespacing:
//
//	SALES_LOGGING_LEVEL=debug
//	SALES_PATHS_DATA_DIR=/srv/sales/data
//	SALES_PATHS_OUTPUT_DIR=/srv/sales/output
//	SALES_REPORTS_TOP_PRODUCTS=20
//
// # Path Management
//
// The Paths type resolves every file location relative to the executable
// directory unless an absolute directory is configured:
//
//	paths, err := config.GetPaths(cfg)
//	txns := paths.TransactionsCSV
//	workbook := paths.DashboardXLSX
package config
