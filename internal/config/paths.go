package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: the two CSV inputs
// under the data directory, and the workbook/HTML outputs under the output
// directory.
type Paths struct {
	BaseDir   string
	DataDir   string
	OutputDir string
	LogsDir   string

	// Input files
	TransactionsCSV string
	CustomersCSV    string

	// Output files
	DashboardXLSX string
	SummaryHTML   string
}

// GetPaths resolves application paths from the configuration. Relative
// directories resolve against the executable directory so the tool behaves
// the same regardless of the current working directory.
func GetPaths(cfg *Config) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	baseDir := filepath.Dir(exe)
	return NewPaths(baseDir, cfg), nil
}

// NewPaths builds a Paths rooted at baseDir. Absolute directories in the
// configuration are used as-is.
func NewPaths(baseDir string, cfg *Config) *Paths {
	if cfg == nil {
		cfg = Default()
	}

	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(baseDir, dir)
	}

	dataDir := resolve(cfg.Paths.DataDir)
	outputDir := resolve(cfg.Paths.OutputDir)

	return &Paths{
		BaseDir:   baseDir,
		DataDir:   dataDir,
		OutputDir: outputDir,
		LogsDir:   resolve(cfg.Paths.LogsDir),

		TransactionsCSV: filepath.Join(dataDir, cfg.Paths.TransactionsCSV),
		CustomersCSV:    filepath.Join(dataDir, cfg.Paths.CustomersCSV),

		DashboardXLSX: filepath.Join(outputDir, cfg.Reports.ExcelFile),
		SummaryHTML:   filepath.Join(outputDir, cfg.Reports.HTMLFile),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.OutputDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetOutputPath returns the full path for a file in the output directory
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
