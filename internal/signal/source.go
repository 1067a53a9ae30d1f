// Package signal simulates the kind of metric the envelope controller
// regulates: a slowly wandering underlying level observed through
// multiplicative gain and additive Gaussian noise.
package signal

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SourceConfig holds the tunable parameters for the simulated metric.
type SourceConfig struct {
	// InitialLevel is the starting value of the underlying level.
	InitialLevel float64

	// DriftSpan is the half-width of the uniform per-step wander
	// applied to the level. Zero freezes the level in place.
	DriftSpan float64

	// NoiseSigma is the standard deviation of the additive Gaussian
	// measurement noise.
	NoiseSigma float64

	// Seed initialises the random stream. The same seed replays the
	// same drift and noise sequence.
	Seed uint64
}

// DefaultSourceConfig returns the baseline simulation parameters.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		InitialLevel: 1.0,
		DriftSpan:    0.001, // slow wander
		NoiseSigma:   0.1,
		Seed:         1,
	}
}

// Sample is one observation of the simulated metric.
type Sample struct {
	// TrueLevel is the underlying level after this step's drift.
	TrueLevel float64

	// Measurement is what the controller sees: gain applied to the
	// level, plus noise.
	Measurement float64
}

// Source produces a deterministic stream of drifting, noisy samples.
type Source struct {
	level float64
	drift distuv.Uniform
	noise distuv.Normal
}

// NewSource builds a Source from cfg. Drift and noise draw from a
// single seeded stream, so runs with equal seeds are identical.
func NewSource(cfg SourceConfig) *Source {
	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	return &Source{
		level: cfg.InitialLevel,
		drift: distuv.Uniform{Min: -cfg.DriftSpan, Max: cfg.DriftSpan, Src: src},
		noise: distuv.Normal{Mu: 0, Sigma: cfg.NoiseSigma, Src: src},
	}
}

// Next advances the level by one drift step and observes it through
// the supplied gain.
func (s *Source) Next(gain float64) Sample {
	s.level += s.drift.Rand()
	return Sample{
		TrueLevel:   s.level,
		Measurement: gain*s.level + s.noise.Rand(),
	}
}

// Level reports the current underlying level.
func (s *Source) Level() float64 {
	return s.level
}
