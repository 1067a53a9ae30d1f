// Package report handles generation of run reports for completed
// control loops. This file provides console display for plain-output
// mode.

package report

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// DisplayRunSummary outputs a compact run summary to the console.
// Used by plain mode for rapid inspection without the full report.
func DisplayRunSummary(w io.Writer, data ReportData) {
	r := data.Result
	if r == nil || len(r.Gains) == 0 {
		return
	}

	// Header
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "RUN: %s\n", data.Scenario)
	fmt.Fprintln(w, strings.Repeat("=", 70))

	fmt.Fprintf(w, "Steps:      %d\n", r.Steps)
	fmt.Fprintf(w, "Elapsed:    %s\n", formatDuration(r.Elapsed))
	fmt.Fprintf(w, "Final gain: %s\n", formatMetric(r.FinalGain, 3))
	fmt.Fprintf(w, "Final band: [%s, %s]\n",
		formatMetric(r.FinalLow, 3), formatMetric(r.FinalHigh, 3))
	fmt.Fprintln(w)

	// Gain section
	writeDisplaySection(w, "GAIN")
	first := r.Gains[0]
	fmt.Fprintf(w, "  Start:      %s\n", formatMetric(first, 3))
	if first != 0 {
		netPct := (r.FinalGain - first) / first * 100
		fmt.Fprintf(w, "  Final:      %s (%s%% net)\n",
			formatMetric(r.FinalGain, 3), formatMetricSigned(netPct, 1))
	} else {
		fmt.Fprintf(w, "  Final:      %s\n", formatMetric(r.FinalGain, 3))
	}
	if gains, err := Summarize(r.Gains); err == nil {
		fmt.Fprintf(w, "  Range:      %s .. %s\n",
			formatMetric(gains.Min, 3), formatMetric(gains.Max, 3))
		if gains.Mean != 0 {
			cv := gains.StdDev / math.Abs(gains.Mean)
			fmt.Fprintf(w, "  Stability:  %.1f%% swing (%s)\n", cv*100, interpretSwing(cv))
		}
	}
	if r.Config.MaxGain > r.Config.MinGain {
		position := (r.FinalGain - r.Config.MinGain) / (r.Config.MaxGain - r.Config.MinGain)
		fmt.Fprintf(w, "  Position:   %s\n", interpretGainPosition(position))
	}
	activity := adjustmentFraction(r)
	fmt.Fprintf(w, "  Activity:   %.0f%% of adapting steps moved (%s)\n",
		activity*100, interpretActivity(activity))
	fmt.Fprintf(w, "  %s\n", Sparkline(r.Gains, 60))
	fmt.Fprintln(w)

	// Measurement section
	writeDisplaySection(w, "MEASUREMENT")
	if measurements, err := Summarize(r.Measurements); err == nil {
		fmt.Fprintf(w, "  Mean:       %s\n", formatMetric(measurements.Mean, 3))
		fmt.Fprintf(w, "  Std Dev:    %s\n", formatMetric(measurements.StdDev, 3))
		fmt.Fprintf(w, "  Range:      %s .. %s\n",
			formatMetric(measurements.Min, 3), formatMetric(measurements.Max, 3))
	}
	fmt.Fprintln(w)

	// Tips section
	tips := GenerateTuningTips(r)
	if len(tips) > 0 {
		writeDisplaySection(w, "TIPS")
		for i, tip := range tips {
			prefix := fmt.Sprintf("  %d. ", i+1)
			indent := strings.Repeat(" ", len(prefix))
			fmt.Fprintf(w, "%s%s\n", prefix, wrapText(tip.Message, 70-len(prefix), indent))
		}
		fmt.Fprintln(w)
	}
}

// writeDisplaySection writes a section header for console output.
func writeDisplaySection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
}
