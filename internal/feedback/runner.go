// Package feedback closes the loop between a simulated signal source
// and the envelope controller: each step observes the source through
// the current gain, feeds the measurement back into the controller,
// and records the resulting trajectory.
package feedback

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/StevenSrebranig/SECL/internal/envelope"
	"github.com/StevenSrebranig/SECL/internal/signal"
)

// ProgressFunc receives periodic snapshots of a running loop.
// progress is in (0, 1]. low and high are the current envelope band,
// or NaN while the window is still empty.
type ProgressFunc func(step int, progress float64, sample signal.Sample, gain, low, high float64)

// Runner drives a source through a controller for a fixed number of
// steps.
type Runner struct {
	ctrl  *envelope.Controller
	src   *signal.Source
	steps int

	progress         ProgressFunc
	progressInterval int
	logger           *slog.Logger
	logInterval      int
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress registers fn to receive periodic snapshots during Run.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithProgressInterval sets how many steps elapse between progress
// snapshots. Values below 1 are ignored.
func WithProgressInterval(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.progressInterval = n
		}
	}
}

// WithLogger attaches a logger that reports the loop state every log
// interval.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLogInterval sets how many steps elapse between log lines.
// Values below 1 are ignored.
func WithLogInterval(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.logInterval = n
		}
	}
}

// New builds a Runner over ctrl and src that will execute the given
// number of steps when Run is called.
func New(ctrl *envelope.Controller, src *signal.Source, steps int, opts ...Option) *Runner {
	r := &Runner{
		ctrl:             ctrl,
		src:              src,
		steps:            steps,
		progressInterval: 10,
		logInterval:      100,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// RunResult holds the full trajectory of one closed-loop run.
type RunResult struct {
	// Steps is the number of loop iterations executed.
	Steps int

	// TrueLevels, Measurements and Gains record the per-step
	// trajectory, one entry per iteration.
	TrueLevels   []float64
	Measurements []float64
	Gains        []float64

	// FinalGain is the gain after the last update.
	FinalGain float64

	// FinalLow and FinalHigh are the envelope band over the window as
	// it stood at the end of the run.
	FinalLow  float64
	FinalHigh float64

	// Warmup is how many leading steps the controller spent holding
	// its gain before the window reached the warm-up size.
	Warmup int

	// Config is the controller configuration, kept for reporting.
	Config envelope.Config

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Run executes the loop: observe, update, record. It fails on the
// first rejected measurement, which cannot happen with the bundled
// source but matters for callers feeding their own samples.
func (r *Runner) Run() (*RunResult, error) {
	if r.ctrl == nil || r.src == nil {
		return nil, fmt.Errorf("runner needs both a controller and a source")
	}
	if r.steps < 1 {
		return nil, fmt.Errorf("step count must be positive, got %d", r.steps)
	}

	start := time.Now()

	trueLevels := make([]float64, 0, r.steps)
	measurements := make([]float64, 0, r.steps)
	gains := make([]float64, 0, r.steps)

	warmup := 0
	gain := r.ctrl.Gain()

	for step := 1; step <= r.steps; step++ {
		sample := r.src.Next(gain)

		var err error
		gain, err = r.ctrl.Update(sample.Measurement)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
		if !r.ctrl.Warm() {
			warmup++
		}

		trueLevels = append(trueLevels, sample.TrueLevel)
		measurements = append(measurements, sample.Measurement)
		gains = append(gains, gain)

		if r.progress != nil && (step%r.progressInterval == 0 || step == r.steps) {
			low, high := r.band()
			r.progress(step, float64(step)/float64(r.steps), sample, gain, low, high)
		}
		if r.logger != nil && step%r.logInterval == 0 {
			r.logger.Info("loop state",
				"step", step,
				"measurement", sample.Measurement,
				"gain", gain,
			)
		}
	}

	low, high := r.band()

	return &RunResult{
		Steps:        r.steps,
		TrueLevels:   trueLevels,
		Measurements: measurements,
		Gains:        gains,
		FinalGain:    gain,
		FinalLow:     low,
		FinalHigh:    high,
		Warmup:       warmup,
		Config:       r.ctrl.Config(),
		Elapsed:      time.Since(start),
	}, nil
}

// band reads the current envelope, mapping the empty-window case to
// NaN so displays can show "no band yet".
func (r *Runner) band() (low, high float64) {
	low, high, err := r.ctrl.Band()
	if err != nil {
		return math.NaN(), math.NaN()
	}
	return low, high
}
