// Package report handles generation of run reports for completed
// control loops.

package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/StevenSrebranig/SECL/internal/feedback"
	"github.com/StevenSrebranig/SECL/internal/signal"
)

// ============================================================================
// Trajectory Interpretation Functions
// ============================================================================
// These functions interpret run statistics and return human-readable
// descriptions of controller behaviour.

// interpretGainPosition describes where the final gain sits inside its
// allowed range. position is normalised: 0 at the floor, 1 at the
// ceiling.
func interpretGainPosition(position float64) string {
	switch {
	case position <= 0:
		return "pinned at the floor"
	case position < 0.1:
		return "hugging the floor"
	case position <= 0.9:
		return "mid-range, free to move"
	case position < 1:
		return "hugging the ceiling"
	default:
		return "pinned at the ceiling"
	}
}

// interpretSwing describes gain stability from its coefficient of
// variation (standard deviation over mean).
//
// A well-settled loop on a stationary signal stays below a few percent;
// double-digit variation means the controller is working hard.
func interpretSwing(cv float64) string {
	switch {
	case cv < 0.01:
		return "rock steady"
	case cv < 0.05:
		return "gentle corrections"
	case cv < 0.15:
		return "active regulation"
	default:
		return "violent swings, likely hunting"
	}
}

// interpretBandWidth describes the envelope width relative to the
// median measurement. Narrow bands react to almost everything; very
// wide bands act only on outliers.
func interpretBandWidth(relative float64) string {
	switch {
	case relative < 0.05:
		return "hairline band, reacts to almost everything"
	case relative < 0.25:
		return "snug band, regular corrections"
	case relative < 0.75:
		return "comfortable band, occasional corrections"
	default:
		return "very wide band, rarely acts"
	}
}

// interpretActivity describes how often the gain moved during the
// adapting phase.
func interpretActivity(fraction float64) string {
	switch {
	case fraction < 0.02:
		return "dormant"
	case fraction < 0.25:
		return "occasional nudges"
	case fraction < 0.6:
		return "steady corrections"
	case fraction < 0.9:
		return "busy"
	default:
		return "moving almost every step"
	}
}

// =============================================================================
// Report Section Formatting Helpers
// =============================================================================

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// ReportData contains all the information needed to generate a run report
type ReportData struct {
	Scenario  string
	Source    signal.SourceConfig
	Result    *feedback.RunResult
	StartTime time.Time
	EndTime   time.Time
}

// GenerateReport writes a detailed run report to w.
//
// Report structure:
// 1. Header - scenario, timestamp, step rate
// 2. Signal Source - simulation parameters
// 3. Controller Configuration - the preset actually used
// 4. Envelope - final band, window fill, warm-up share
// 5. Series Statistics - five-column table over the three traces
// 6. Gain Trajectory - sparkline plus position/activity readings
// 7. Tuning Tips - prioritised configuration advice
func GenerateReport(w io.Writer, data ReportData) error {
	if data.Result == nil {
		return fmt.Errorf("no run result to report")
	}

	writeReportHeader(w, data)
	writeSourceConfig(w, data.Source)
	writeControllerConfig(w, data.Result)
	writeEnvelope(w, data.Result)
	if err := writeSeriesStatistics(w, data.Result); err != nil {
		return err
	}
	writeGainTrajectory(w, data.Result)
	writeTuningTips(w, data.Result)

	return nil
}

// SaveReport creates path and writes the run report into it.
func SaveReport(path string, data ReportData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	return GenerateReport(f, data)
}

// writeReportHeader outputs the report header with scenario and timing.
func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "SECL Run Report")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "Scenario: %s\n", data.Scenario)
	fmt.Fprintf(w, "Completed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Steps: %d in %s", data.Result.Steps, formatDuration(data.Result.Elapsed))
	if data.Result.Elapsed > 0 {
		rate := float64(data.Result.Steps) / data.Result.Elapsed.Seconds()
		fmt.Fprintf(w, " (%.0f steps/s)", rate)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "")
}

// writeSourceConfig outputs the simulation parameters.
func writeSourceConfig(w io.Writer, src signal.SourceConfig) {
	writeSection(w, "Signal Source")

	fmt.Fprintf(w, "Initial level: %.3f\n", src.InitialLevel)
	fmt.Fprintf(w, "Drift span:    ±%g per step\n", src.DriftSpan)
	fmt.Fprintf(w, "Noise sigma:   %g\n", src.NoiseSigma)
	fmt.Fprintf(w, "Seed:          %d\n", src.Seed)
	fmt.Fprintln(w, "")
}

// writeControllerConfig outputs the controller parameters used for the run.
func writeControllerConfig(w io.Writer, r *feedback.RunResult) {
	writeSection(w, "Controller Configuration")

	cfg := r.Config
	fmt.Fprintf(w, "Window size:   %d samples\n", cfg.WindowSize)
	fmt.Fprintf(w, "Quantiles:     %.2f / %.2f\n", cfg.LowerQuantile, cfg.UpperQuantile)
	fmt.Fprintf(w, "Step fraction: %.1f%%\n", cfg.StepFraction*100)
	fmt.Fprintf(w, "Initial gain:  %.3f\n", cfg.InitialGain)
	fmt.Fprintf(w, "Gain limits:   [%g, %g]\n", cfg.MinGain, cfg.MaxGain)
	fmt.Fprintf(w, "Warm-up:       %d samples\n", cfg.WarmupSamples)
	fmt.Fprintln(w, "")
}

// writeEnvelope outputs the final band and how the run related to it.
func writeEnvelope(w io.Writer, r *feedback.RunResult) {
	writeSection(w, "Envelope")

	fmt.Fprintf(w, "Final band: [%s, %s]\n",
		formatMetric(r.FinalLow, 3), formatMetric(r.FinalHigh, 3))

	// Band width relative to the median measurement, when computable.
	if median, err := medianOf(r.Measurements); err == nil && median != 0 &&
		!math.IsNaN(r.FinalLow) && !math.IsNaN(r.FinalHigh) {
		relative := (r.FinalHigh - r.FinalLow) / math.Abs(median)
		fmt.Fprintf(w, "Band width: %s (%.0f%% of median measurement) - %s\n",
			formatMetric(r.FinalHigh-r.FinalLow, 3), relative*100, interpretBandWidth(relative))
	}

	windowFill := r.Steps
	if windowFill > r.Config.WindowSize {
		windowFill = r.Config.WindowSize
	}
	fmt.Fprintf(w, "Window:     %d of %d samples\n", windowFill, r.Config.WindowSize)

	warmShare := 0.0
	if r.Steps > 0 {
		warmShare = float64(r.Warmup) / float64(r.Steps)
	}
	fmt.Fprintf(w, "Warm-up:    %d steps held (%.0f%% of run)\n", r.Warmup, warmShare*100)
	fmt.Fprintln(w, "")
}

// writeSeriesStatistics outputs the five-column statistics table over
// the three recorded traces.
func writeSeriesStatistics(w io.Writer, r *feedback.RunResult) error {
	writeSection(w, "Series Statistics")

	table := NewSeriesTable()

	levels, err := Summarize(r.TrueLevels)
	if err != nil {
		return fmt.Errorf("failed to summarise true levels: %w", err)
	}
	table.AddSummaryRow("True Level", levels, 3, "", "")

	measurements, err := Summarize(r.Measurements)
	if err != nil {
		return fmt.Errorf("failed to summarise measurements: %w", err)
	}
	table.AddSummaryRow("Measurement", measurements, 3, "", "")

	gains, err := Summarize(r.Gains)
	if err != nil {
		return fmt.Errorf("failed to summarise gains: %w", err)
	}
	swing := ""
	if gains.Mean != 0 {
		swing = interpretSwing(gains.StdDev / math.Abs(gains.Mean))
	}
	table.AddSummaryRow("Gain", gains, 3, "", swing)

	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
	return nil
}

// writeGainTrajectory outputs the gain trace as a sparkline with
// position and activity readings.
func writeGainTrajectory(w io.Writer, r *feedback.RunResult) {
	writeSection(w, "Gain Trajectory")

	first := r.Gains[0]
	fmt.Fprintf(w, "Start gain: %s\n", formatMetric(first, 3))

	final := fmt.Sprintf("Final gain: %s", formatMetric(r.FinalGain, 3))
	if first != 0 {
		netPct := (r.FinalGain - first) / first * 100
		final += fmt.Sprintf(" (%s%% net)", formatMetricSigned(netPct, 1))
	}
	fmt.Fprintln(w, final)

	cfg := r.Config
	if cfg.MaxGain > cfg.MinGain {
		position := (r.FinalGain - cfg.MinGain) / (cfg.MaxGain - cfg.MinGain)
		fmt.Fprintf(w, "Position:   %s\n", interpretGainPosition(position))
	}

	activity := adjustmentFraction(r)
	fmt.Fprintf(w, "Activity:   %.0f%% of adapting steps moved (%s)\n",
		activity*100, interpretActivity(activity))

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, Sparkline(r.Gains, 60))
	fmt.Fprintln(w, "")
}

// writeTuningTips outputs prioritised configuration advice, wrapped to
// a readable width.
func writeTuningTips(w io.Writer, r *feedback.RunResult) {
	writeSection(w, "Tuning Tips")

	tips := GenerateTuningTips(r)
	if len(tips) == 0 {
		fmt.Fprintln(w, "No tuning concerns detected.")
		return
	}

	for i, tip := range tips {
		prefix := fmt.Sprintf("%d. ", i+1)
		indent := strings.Repeat(" ", len(prefix))
		fmt.Fprintf(w, "%s%s\n", prefix, wrapText(tip.Message, 72-len(prefix), indent))
	}
}

// medianOf is a small convenience over Summarize for a single statistic.
func medianOf(series []float64) (float64, error) {
	s, err := Summarize(series)
	if err != nil {
		return 0, err
	}
	return s.Median, nil
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// sparkTicks are the block glyphs used to render trajectories, lowest
// to highest.
var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders a series as a fixed-width strip of block glyphs.
// The series is averaged into width buckets and scaled so the series
// minimum maps to the lowest glyph and the maximum to the highest.
// A flat series renders at mid-height. Returns "" for an empty series.
func Sparkline(series []float64, width int) string {
	if len(series) == 0 || width < 1 {
		return ""
	}
	if width > len(series) {
		width = len(series)
	}

	// Average the series into one bucket per output glyph.
	buckets := make([]float64, width)
	for b := range buckets {
		start := b * len(series) / width
		end := (b + 1) * len(series) / width

		sum := 0.0
		count := 0
		for _, v := range series[start:end] {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			buckets[b] = math.NaN()
			continue
		}
		buckets[b] = sum / float64(count)
	}

	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, v := range buckets {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var sb strings.Builder
	for _, v := range buckets {
		switch {
		case math.IsNaN(v):
			sb.WriteRune(' ')
		case hi == lo:
			sb.WriteRune(sparkTicks[len(sparkTicks)/2])
		default:
			idx := int((v - lo) / (hi - lo) * float64(len(sparkTicks)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(sparkTicks) {
				idx = len(sparkTicks) - 1
			}
			sb.WriteRune(sparkTicks[idx])
		}
	}
	return sb.String()
}
