// Package envelope implements a statistical-envelope control loop: a
// feedback controller that keeps a noisy, drifting metric inside the
// empirical quantile band of its own recent history by adapting a
// multiplicative gain. There is no fixed setpoint; the controller only
// reacts when the latest observation falls outside the recent spread.
package envelope

import (
	"fmt"
	"math"
)

// Controller adapts a multiplicative gain so that incoming measurements
// stay within the rolling quantile envelope of recent samples. The band
// is re-estimated from the window on every adapting update, so the
// controller chases the signal's own distribution rather than a target
// value.
//
// A Controller drives exactly one metric stream and is not safe for
// concurrent use; give each metric its own instance.
type Controller struct {
	cfg     Config
	history *window
	gain    float64
}

// New constructs a Controller from cfg. It returns
// ErrInvalidConfiguration unless 0 < LowerQuantile < UpperQuantile < 1
// and WindowSize >= 1.
//
// InitialGain is stored verbatim: a value outside [MinGain, MaxGain]
// is held through warm-up and only pulled into range by the first
// adapting Update. Callers wanting a bounded start must pass one.
func New(cfg Config) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:     cfg,
		history: newWindow(cfg.WindowSize),
		gain:    cfg.InitialGain,
	}, nil
}

// Update feeds one measurement into the window and returns the gain
// after any adaptation:
//
//  1. The measurement joins the window, evicting the oldest sample if
//     the window is at capacity.
//  2. While the window holds fewer than WarmupSamples entries the gain
//     is returned unchanged.
//  3. Otherwise the lower and upper quantiles of the window (which
//     already includes the new measurement) form the envelope: above
//     it the gain shrinks by StepFraction, below it the gain grows by
//     StepFraction, inside the inclusive band it is left alone.
//  4. The gain is clamped to [MinGain, MaxGain] before returning.
//
// Non-finite measurements (NaN, ±Inf) are rejected with
// ErrInvalidInput; the window and gain are left untouched.
func (c *Controller) Update(measurement float64) (float64, error) {
	if math.IsNaN(measurement) || math.IsInf(measurement, 0) {
		return c.gain, fmt.Errorf("%w: measurement must be finite, got %v", ErrInvalidInput, measurement)
	}

	c.history.append(measurement)

	// Not enough data yet to trust the envelope: hold gain.
	if c.history.size() < c.cfg.WarmupSamples {
		return c.gain, nil
	}

	snap := c.history.snapshot()
	low, err := Quantile(snap, c.cfg.LowerQuantile)
	if err != nil {
		return c.gain, err
	}
	high, err := Quantile(snap, c.cfg.UpperQuantile)
	if err != nil {
		return c.gain, err
	}

	switch {
	case measurement > high:
		// Metric running hot: back the gain off.
		c.gain *= 1.0 - c.cfg.StepFraction
	case measurement < low:
		// Metric running cold: push the gain up.
		c.gain *= 1.0 + c.cfg.StepFraction
	}

	c.gain = clamp(c.gain, c.cfg.MinGain, c.cfg.MaxGain)
	return c.gain, nil
}

// Gain returns the current gain without feeding a sample.
func (c *Controller) Gain() float64 {
	return c.gain
}

// Len reports how many samples the window currently holds.
func (c *Controller) Len() int {
	return c.history.size()
}

// Warm reports whether enough samples have arrived for adaptation.
func (c *Controller) Warm() bool {
	return c.history.size() >= c.cfg.WarmupSamples
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() Config {
	return c.cfg
}

// Band returns the current envelope bounds over the window, without
// feeding a sample. It returns ErrInvalidInput while the window is
// empty. Update recomputes the band itself; Band exists for callers
// that want to display it.
func (c *Controller) Band() (low, high float64, err error) {
	snap := c.history.snapshot()
	low, err = Quantile(snap, c.cfg.LowerQuantile)
	if err != nil {
		return 0, 0, err
	}
	high, err = Quantile(snap, c.cfg.UpperQuantile)
	if err != nil {
		return 0, 0, err
	}
	return low, high, nil
}

// clamp restricts val to the inclusive range [min, max].
func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
