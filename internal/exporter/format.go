package exporter

import (
	"fmt"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Always format with exactly 2 decimal places so values like 13.4
	// appear as 13.40
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatInt64 formats an int64 value for CSV output
func formatInt64(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatMoney formats an amount for human-readable output
func formatMoney(f float64) string {
	return "$" + formatFloat(f)
}

// formatPercent formats a ratio in [0,1] as a percentage with one decimal
func formatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
