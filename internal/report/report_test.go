package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/StevenSrebranig/SECL/internal/envelope"
	"github.com/StevenSrebranig/SECL/internal/feedback"
	"github.com/StevenSrebranig/SECL/internal/signal"
)

// sampleReportData synthesizes a plausible 120-step run: the level
// drifts up slowly while the gain steps down every seventh adapting
// step.
func sampleReportData() ReportData {
	cfg := envelope.DefaultConfig()

	steps := 120
	levels := make([]float64, steps)
	measurements := make([]float64, steps)
	gains := make([]float64, steps)

	gain := cfg.InitialGain
	for i := 0; i < steps; i++ {
		levels[i] = 1.0 + 0.001*float64(i)
		measurements[i] = gain * levels[i]
		if i >= cfg.WarmupSamples && i%7 == 0 {
			gain *= 1 - cfg.StepFraction
		}
		gains[i] = gain
	}

	end := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	return ReportData{
		Scenario: "default",
		Source:   signal.DefaultSourceConfig(),
		Result: &feedback.RunResult{
			Steps:        steps,
			TrueLevels:   levels,
			Measurements: measurements,
			Gains:        gains,
			FinalGain:    gains[steps-1],
			FinalLow:     0.95,
			FinalHigh:    1.12,
			Warmup:       cfg.WarmupSamples - 1,
			Config:       cfg,
			Elapsed:      42 * time.Millisecond,
		},
		StartTime: end.Add(-42 * time.Millisecond),
		EndTime:   end,
	}
}

func TestGenerateReport(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateReport(&buf, sampleReportData()); err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{
		"SECL Run Report",
		"Scenario: default",
		"Completed: 2025-03-14 15:09:26 UTC",
		"Steps: 120 in 0.0s",
		"Signal Source",
		"Controller Configuration",
		"Envelope",
		"Series Statistics",
		"Gain Trajectory",
		"Tuning Tips",
		"Window size:   200 samples",
		"Quantiles:     0.25 / 0.75",
		"Final band: [0.950, 1.120]",
		"True Level",
		"Measurement",
		"Start gain: 1.000",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestGenerateReportNilResult(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateReport(&buf, ReportData{Scenario: "default"})
	if err == nil {
		t.Fatal("GenerateReport() should fail without a run result")
	}
	if !strings.Contains(err.Error(), "no run result") {
		t.Errorf("error = %v, want mention of missing run result", err)
	}
}

func TestGenerateReportEmptyTraces(t *testing.T) {
	data := sampleReportData()
	data.Result.TrueLevels = nil
	data.Result.Measurements = nil
	data.Result.Gains = nil

	var buf bytes.Buffer
	if err := GenerateReport(&buf, data); err == nil {
		t.Error("GenerateReport() should fail when traces are empty")
	}
}

func TestSaveReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")
	if err := SaveReport(path, sampleReportData()); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report file: %v", err)
	}
	if !strings.Contains(string(content), "SECL Run Report") {
		t.Error("saved report missing header")
	}
}

func TestSaveReportBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "run.txt")
	err := SaveReport(path, sampleReportData())
	if err == nil {
		t.Fatal("SaveReport() should fail for a missing directory")
	}
	if !strings.Contains(err.Error(), "failed to create report file") {
		t.Errorf("error = %v, want file creation failure", err)
	}
}

func TestSparkline(t *testing.T) {
	t.Run("empty_series", func(t *testing.T) {
		if got := Sparkline(nil, 10); got != "" {
			t.Errorf("Sparkline(nil) = %q, want empty", got)
		}
	})

	t.Run("zero_width", func(t *testing.T) {
		if got := Sparkline([]float64{1, 2}, 0); got != "" {
			t.Errorf("Sparkline(width 0) = %q, want empty", got)
		}
	})

	t.Run("flat_series_renders_mid", func(t *testing.T) {
		if got := Sparkline([]float64{2, 2, 2}, 3); got != "▅▅▅" {
			t.Errorf("Sparkline(flat) = %q, want %q", got, "▅▅▅")
		}
	})

	t.Run("pair_spans_full_scale", func(t *testing.T) {
		if got := Sparkline([]float64{0, 7}, 2); got != "▁█" {
			t.Errorf("Sparkline(pair) = %q, want %q", got, "▁█")
		}
	})

	t.Run("ramp_spans_full_scale", func(t *testing.T) {
		series := make([]float64, 60)
		for i := range series {
			series[i] = float64(i)
		}
		runes := []rune(Sparkline(series, 60))
		if len(runes) != 60 {
			t.Fatalf("got %d glyphs, want 60", len(runes))
		}
		if runes[0] != '▁' {
			t.Errorf("first glyph = %q, want %q", runes[0], '▁')
		}
		if runes[59] != '█' {
			t.Errorf("last glyph = %q, want %q", runes[59], '█')
		}
	})

	t.Run("width_capped_at_series_length", func(t *testing.T) {
		if runes := []rune(Sparkline([]float64{1, 2, 3}, 10)); len(runes) != 3 {
			t.Errorf("got %d glyphs, want 3", len(runes))
		}
	})

	t.Run("nan_bucket_renders_blank", func(t *testing.T) {
		if got := Sparkline([]float64{math.NaN(), 1, 2}, 3); got != " ▁█" {
			t.Errorf("Sparkline(with NaN) = %q, want %q", got, " ▁█")
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"sub_second", 500 * time.Millisecond, "0.5s"},
		{"seconds", 42 * time.Second, "42.0s"},
		{"minutes", 90 * time.Second, "1m 30s"},
		{"hours", 2*time.Hour + 5*time.Minute + 3*time.Second, "2h 5m 3s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestInterpretSwing(t *testing.T) {
	tests := []struct {
		cv   float64
		want string
	}{
		{0.001, "rock steady"},
		{0.03, "gentle corrections"},
		{0.10, "active regulation"},
		{0.50, "violent swings, likely hunting"},
	}
	for _, tt := range tests {
		if got := interpretSwing(tt.cv); got != tt.want {
			t.Errorf("interpretSwing(%v) = %q, want %q", tt.cv, got, tt.want)
		}
	}
}

func TestInterpretGainPosition(t *testing.T) {
	tests := []struct {
		position float64
		want     string
	}{
		{0.0, "pinned at the floor"},
		{0.05, "hugging the floor"},
		{0.5, "mid-range, free to move"},
		{0.95, "hugging the ceiling"},
		{1.0, "pinned at the ceiling"},
	}
	for _, tt := range tests {
		if got := interpretGainPosition(tt.position); got != tt.want {
			t.Errorf("interpretGainPosition(%v) = %q, want %q", tt.position, got, tt.want)
		}
	}
}

func TestDisplayRunSummary(t *testing.T) {
	var buf bytes.Buffer
	DisplayRunSummary(&buf, sampleReportData())

	got := buf.String()
	for _, want := range []string{
		strings.Repeat("=", 70),
		"RUN: default",
		"Steps:      120",
		"GAIN",
		"Stability:",
		"Position:",
		"Activity:",
		"MEASUREMENT",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q", want)
		}
	}

	// The sample run raises no tuning concerns, so the tips section
	// stays hidden.
	if strings.Contains(got, "TIPS") {
		t.Errorf("summary shows tips for a healthy run:\n%s", got)
	}
}

func TestDisplayRunSummaryNilResult(t *testing.T) {
	var buf bytes.Buffer
	DisplayRunSummary(&buf, ReportData{Scenario: "default"})
	if buf.Len() != 0 {
		t.Errorf("summary for nil result wrote %q, want nothing", buf.String())
	}
}
