// Package report generates run reports for completed control loops.
// This file contains reusable table formatting infrastructure for
// multi-column statistics tables (Mean → Std Dev → Min → Median → Max).

package report

import (
	"fmt"
	"math"
	"strings"
)

// MetricRow represents a single row in a statistics table.
// Values are pre-formatted strings to allow for mixed formatting
// (decimals, scientific notation).
type MetricRow struct {
	Label          string   // Row label, e.g., "Measurement"
	Values         []string // One value per column
	Unit           string   // Unit suffix, "" for unitless
	Interpretation string   // Optional interpretation text (only shown if non-empty)
}

// MetricTable formats aligned columns for series statistics.
// Handles variable column widths, missing values, and an optional
// interpretation column.
type MetricTable struct {
	Headers []string    // Column headers, e.g., ["Mean", "Std Dev", ...]
	Rows    []MetricRow // Data rows
}

// String renders the table with aligned columns.
// - Labels are left-aligned
// - Numeric values are right-aligned within their column
// - Units are appended after the last value column
// - Interpretation column only shown if any row has one
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	hasInterpretation := false
	for _, row := range t.Rows {
		if row.Interpretation != "" {
			hasInterpretation = true
			break
		}
	}

	labelWidth := 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	// Value column widths (one per header)
	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	unitWidth := 0
	for _, row := range t.Rows {
		if len(row.Unit) > unitWidth {
			unitWidth = len(row.Unit)
		}
	}

	var sb strings.Builder

	// Header row
	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], header))
	}
	if unitWidth > 0 {
		sb.WriteString(strings.Repeat(" ", unitWidth+1))
	}
	if hasInterpretation {
		sb.WriteString("Interpretation")
	}
	sb.WriteString("\n")

	// Data rows
	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))

		for i := 0; i < len(t.Headers); i++ {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], val))
		}

		if unitWidth > 0 {
			sb.WriteString(fmt.Sprintf("%-*s ", unitWidth, row.Unit))
		}
		if hasInterpretation {
			sb.WriteString(row.Interpretation)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// =============================================================================
// Metric Formatting Helpers
// =============================================================================

// MissingValue is the placeholder for unavailable statistics
const MissingValue = "-"

// formatMetric formats a numeric value with appropriate precision.
// Handles:
// - Regular floats: formatted to specified decimal places
// - Very small values (< 0.0001): scientific notation
// - NaN/Inf: returns MissingValue
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}

	// Use scientific notation for very small non-zero values
	if value != 0 && math.Abs(value) < 0.0001 {
		return fmt.Sprintf("%.2e", value)
	}

	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, value)
}

// formatMetricSigned formats a value with explicit sign for positive values.
// Useful for showing gain changes like "+5.0%" or "-12.3%".
func formatMetricSigned(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}

	format := fmt.Sprintf("%%+.%df", decimals)
	return fmt.Sprintf(format, value)
}

// =============================================================================
// Table Builder Helpers
// =============================================================================

// NewSeriesTable creates a MetricTable with the standard statistics headers.
func NewSeriesTable() *MetricTable {
	return &MetricTable{
		Headers: []string{"Mean", "Std Dev", "Min", "Median", "Max"},
		Rows:    make([]MetricRow, 0),
	}
}

// AddRow adds a row to the table with pre-formatted values.
func (t *MetricTable) AddRow(label string, values []string, unit string, interpretation string) {
	t.Rows = append(t.Rows, MetricRow{
		Label:          label,
		Values:         values,
		Unit:           unit,
		Interpretation: interpretation,
	})
}

// AddSummaryRow adds a row from a series summary, formatting the five
// statistics automatically. NaN statistics display as "-".
func (t *MetricTable) AddSummaryRow(label string, s SeriesSummary, decimals int, unit string, interpretation string) {
	t.Rows = append(t.Rows, MetricRow{
		Label: label,
		Values: []string{
			formatMetric(s.Mean, decimals),
			formatMetric(s.StdDev, decimals),
			formatMetric(s.Min, decimals),
			formatMetric(s.Median, decimals),
			formatMetric(s.Max, decimals),
		},
		Unit:           unit,
		Interpretation: interpretation,
	})
}
