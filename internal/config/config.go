package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Reports ReportsConfig `yaml:"reports" envconfig:"REPORTS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration.
// Relative paths resolve against the executable directory.
type PathsConfig struct {
	DataDir         string `yaml:"data_dir" envconfig:"DATA_DIR"`
	OutputDir       string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogsDir         string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	TransactionsCSV string `yaml:"transactions_csv" envconfig:"TRANSACTIONS_CSV"`
	CustomersCSV    string `yaml:"customers_csv" envconfig:"CUSTOMERS_CSV"`
}

// ReportsConfig controls report generation behavior
type ReportsConfig struct {
	TopProducts   int    `yaml:"top_products" envconfig:"TOP_PRODUCTS"`
	DateFormat    string `yaml:"date_format" envconfig:"DATE_FORMAT"`
	ExcelFile     string `yaml:"excel_file" envconfig:"EXCEL_FILE"`
	HTMLFile      string `yaml:"html_file" envconfig:"HTML_FILE"`
	CSVBreakdowns bool   `yaml:"csv_breakdowns" envconfig:"CSV_BREAKDOWNS"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := *Default()

	// Overlay from config file if one exists
	configFile := getConfigFilePath()
	if configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables take precedence over everything
	if err := envconfig.Process("SALES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Reports.TopProducts <= 0 {
		return fmt.Errorf("reports.top_products must be positive, got %d", c.Reports.TopProducts)
	}

	if c.Paths.TransactionsCSV == "" {
		return fmt.Errorf("paths.transactions_csv must not be empty")
	}

	if c.Paths.CustomersCSV == "" {
		return fmt.Errorf("paths.customers_csv must not be empty")
	}

	if c.Logging.Format != "json" {
		// The structured logger only emits JSON
		c.Logging.Format = "json"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:         "data",
			OutputDir:       "output",
			LogsDir:         "logs",
			TransactionsCSV: "transactions.csv",
			CustomersCSV:    "customers.csv",
		},
		Reports: ReportsConfig{
			TopProducts: 10,
			DateFormat:  "2006-01-02",
			ExcelFile:   "dashboard.xlsx",
			HTMLFile:    "summary.html",
		},
	}
}
