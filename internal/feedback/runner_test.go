package feedback

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/StevenSrebranig/SECL/internal/envelope"
	"github.com/StevenSrebranig/SECL/internal/signal"
)

func newTestLoop(t *testing.T, steps int, opts ...Option) *Runner {
	t.Helper()

	ctrl, err := envelope.New(envelope.DefaultConfig())
	if err != nil {
		t.Fatalf("envelope.New returned error: %v", err)
	}
	return New(ctrl, signal.NewSource(signal.DefaultSourceConfig()), steps, opts...)
}

func TestRunRecordsFullTrajectory(t *testing.T) {
	const steps = 500
	runner := newTestLoop(t, steps)

	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Steps != steps {
		t.Errorf("Steps = %d, want %d", result.Steps, steps)
	}
	if len(result.TrueLevels) != steps {
		t.Errorf("len(TrueLevels) = %d, want %d", len(result.TrueLevels), steps)
	}
	if len(result.Measurements) != steps {
		t.Errorf("len(Measurements) = %d, want %d", len(result.Measurements), steps)
	}
	if len(result.Gains) != steps {
		t.Errorf("len(Gains) = %d, want %d", len(result.Gains), steps)
	}

	if result.FinalGain != result.Gains[steps-1] {
		t.Errorf("FinalGain = %g, want last trace entry %g", result.FinalGain, result.Gains[steps-1])
	}

	cfg := result.Config
	for i, g := range result.Gains {
		if i >= cfg.WarmupSamples && (g < cfg.MinGain || g > cfg.MaxGain) {
			t.Fatalf("Gains[%d] = %g escaped [%g, %g]", i, g, cfg.MinGain, cfg.MaxGain)
		}
	}

	// The warm-up count includes the appended sample, so the hold
	// phase covers exactly WarmupSamples-1 leading steps.
	if want := cfg.WarmupSamples - 1; result.Warmup != want {
		t.Errorf("Warmup = %d, want %d", result.Warmup, want)
	}
	if result.Elapsed <= 0 {
		t.Errorf("Elapsed = %v, want positive duration", result.Elapsed)
	}
}

func TestRunIsDeterministicForEqualSeeds(t *testing.T) {
	run := func() *RunResult {
		t.Helper()
		result, err := newTestLoop(t, 300).Run()
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		return result
	}

	a := run()
	b := run()

	if a.FinalGain != b.FinalGain {
		t.Errorf("FinalGain = %g vs %g, want identical runs for equal seeds", a.FinalGain, b.FinalGain)
	}
	for i := range a.Measurements {
		if a.Measurements[i] != b.Measurements[i] {
			t.Fatalf("Measurements[%d] = %g vs %g, want identical", i, a.Measurements[i], b.Measurements[i])
		}
		if a.Gains[i] != b.Gains[i] {
			t.Fatalf("Gains[%d] = %g vs %g, want identical", i, a.Gains[i], b.Gains[i])
		}
	}
}

func TestRunNoiselessLoopHoldsUnityGain(t *testing.T) {
	ctrl, err := envelope.New(envelope.DefaultConfig())
	if err != nil {
		t.Fatalf("envelope.New returned error: %v", err)
	}
	src := signal.NewSource(signal.SourceConfig{
		InitialLevel: 1.0,
		DriftSpan:    0,
		NoiseSigma:   0,
		Seed:         1,
	})

	result, err := New(ctrl, src, 400).Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// A constant noiseless measurement sits inside its own band, so
	// the gain never moves.
	if result.FinalGain != 1.0 {
		t.Errorf("FinalGain = %g, want 1.0", result.FinalGain)
	}
	if result.FinalLow != 1.0 || result.FinalHigh != 1.0 {
		t.Errorf("final band = [%g, %g], want [1, 1]", result.FinalLow, result.FinalHigh)
	}
}

func TestRunEmitsProgressSnapshots(t *testing.T) {
	const steps = 25

	var gotSteps []int
	var lastProgress float64
	runner := newTestLoop(t, steps,
		WithProgress(func(step int, progress float64, sample signal.Sample, gain, low, high float64) {
			gotSteps = append(gotSteps, step)
			lastProgress = progress
			if progress <= 0 || progress > 1 {
				t.Errorf("progress = %g at step %d, want in (0, 1]", progress, step)
			}
			if low > high {
				t.Errorf("band [%g, %g] at step %d, want low <= high", low, high, step)
			}
		}),
	)

	if _, err := runner.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Default interval of 10 fires at 10 and 20, plus the final step.
	want := []int{10, 20, 25}
	if len(gotSteps) != len(want) {
		t.Fatalf("progress steps = %v, want %v", gotSteps, want)
	}
	for i := range want {
		if gotSteps[i] != want[i] {
			t.Errorf("progress step %d = %d, want %d", i, gotSteps[i], want[i])
		}
	}
	if lastProgress != 1.0 {
		t.Errorf("final progress = %g, want 1.0", lastProgress)
	}
}

func TestWithProgressIntervalOverrides(t *testing.T) {
	const steps = 30

	calls := 0
	runner := newTestLoop(t, steps,
		WithProgress(func(step int, progress float64, sample signal.Sample, gain, low, high float64) {
			calls++
		}),
		WithProgressInterval(1),
	)

	if _, err := runner.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if calls != steps {
		t.Errorf("progress calls = %d with interval 1, want %d", calls, steps)
	}

	// A non-positive interval is ignored, keeping the default.
	calls = 0
	runner = newTestLoop(t, steps,
		WithProgress(func(step int, progress float64, sample signal.Sample, gain, low, high float64) {
			calls++
		}),
		WithProgressInterval(0),
	)
	if _, err := runner.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("progress calls = %d with ignored interval, want 3", calls)
	}
}

func TestWithLoggerReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	runner := newTestLoop(t, 300, WithLogger(logger))
	if _, err := runner.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Default log interval of 100 yields lines at 100, 200 and 300.
	if got := strings.Count(buf.String(), "loop state"); got != 3 {
		t.Errorf("log lines = %d, want 3\noutput:\n%s", got, buf.String())
	}
}

func TestRunRejectsBadSetup(t *testing.T) {
	ctrl, err := envelope.New(envelope.DefaultConfig())
	if err != nil {
		t.Fatalf("envelope.New returned error: %v", err)
	}
	src := signal.NewSource(signal.DefaultSourceConfig())

	if _, err := New(nil, src, 10).Run(); err == nil {
		t.Error("Run with nil controller returned nil error")
	}
	if _, err := New(ctrl, nil, 10).Run(); err == nil {
		t.Error("Run with nil source returned nil error")
	}
	if _, err := New(ctrl, src, 0).Run(); err == nil {
		t.Error("Run with zero steps returned nil error")
	}
	if _, err := New(ctrl, src, -5).Run(); err == nil {
		t.Error("Run with negative steps returned nil error")
	}
}
