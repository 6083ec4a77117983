// Package exporter renders the aggregated report to its output formats:
// an Excel dashboard workbook with one sheet per breakdown plus charts,
// a standalone HTML summary, and optional per-breakdown CSV files.
//
// All exporters overwrite existing output files and surface unwritable
// destinations as IO errors.
package exporter
