package envelope

import "fmt"

// Config holds the controller tunables. All fields are fixed at
// construction; the controller never mutates its configuration.
type Config struct {
	WindowSize    int     // Samples retained for envelope estimation
	LowerQuantile float64 // Lower envelope bound as a fraction in (0, 1)
	UpperQuantile float64 // Upper envelope bound as a fraction in (0, 1)
	StepFraction  float64 // Fractional gain change per out-of-band sample
	InitialGain   float64 // Starting gain (not clamped at construction, see New)
	MinGain       float64 // Lower gain clamp
	MaxGain       float64 // Upper gain clamp
	WarmupSamples int     // Samples collected before adaptation begins
}

// DefaultConfig returns the reference tuning: an interquartile envelope
// over the last 200 samples with 5% multiplicative gain steps.
func DefaultConfig() Config {
	return Config{
		WindowSize:    200,  // Enough history to ride out transient spikes
		LowerQuantile: 0.25, // First quartile
		UpperQuantile: 0.75, // Third quartile
		StepFraction:  0.05, // 5% correction per out-of-band sample
		InitialGain:   1.0,  // Unity gain until adaptation starts
		MinGain:       0.1,  // Never attenuate below 1/10
		MaxGain:       10.0, // Never amplify above 10x
		WarmupSamples: 20,   // Minimum history before the band is trusted
	}
}

// validate checks the structural invariants New relies on.
func (c Config) validate() error {
	if !(0 < c.LowerQuantile && c.LowerQuantile < c.UpperQuantile && c.UpperQuantile < 1) {
		return fmt.Errorf("%w: require 0 < lower quantile < upper quantile < 1, got %g and %g",
			ErrInvalidConfiguration, c.LowerQuantile, c.UpperQuantile)
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("%w: window size must be at least 1, got %d",
			ErrInvalidConfiguration, c.WindowSize)
	}
	return nil
}
