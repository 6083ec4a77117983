package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for one test so config file lookup
// is isolated from the repository tree.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "output", cfg.Paths.OutputDir)
	assert.Equal(t, "transactions.csv", cfg.Paths.TransactionsCSV)
	assert.Equal(t, "customers.csv", cfg.Paths.CustomersCSV)
	assert.Equal(t, 10, cfg.Reports.TopProducts)
	assert.Equal(t, "dashboard.xlsx", cfg.Reports.ExcelFile)
	assert.Equal(t, "summary.html", cfg.Reports.HTMLFile)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SALES_LOGGING_LEVEL", "debug")
	t.Setenv("SALES_PATHS_DATA_DIR", "/srv/sales/data")
	t.Setenv("SALES_REPORTS_TOP_PRODUCTS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/sales/data", cfg.Paths.DataDir)
	assert.Equal(t, 5, cfg.Reports.TopProducts)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	configYAML := `logging:
  level: warn
paths:
  output_dir: reports
reports:
  top_products: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "reports", cfg.Paths.OutputDir)
	assert.Equal(t, 3, cfg.Reports.TopProducts)
	// Untouched fields keep their defaults
	assert.Equal(t, "data", cfg.Paths.DataDir)
}

func TestEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("reports:\n  top_products: 3\n"), 0644))
	t.Setenv("SALES_REPORTS_TOP_PRODUCTS", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Reports.TopProducts)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Reports.TopProducts = 0
	assert.Error(t, cfg.validate())

	cfg = Default()
	cfg.Paths.TransactionsCSV = ""
	assert.Error(t, cfg.validate())
}

func TestValidateForcesJSONFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
}
