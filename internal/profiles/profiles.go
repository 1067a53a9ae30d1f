// Package profiles names ready-made controller configurations for the
// demo scenarios.
package profiles

import (
	"sort"

	"github.com/StevenSrebranig/SECL/internal/envelope"
)

// Lookup returns the preset configuration registered under name.
// Unknown names report false so the caller can fall back or error.
func Lookup(name string) (envelope.Config, bool) {
	build, ok := presets[name]
	if !ok {
		return envelope.Config{}, false
	}
	return build(), true
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a one-line description of a preset, or "" for
// unknown names.
func Describe(name string) string {
	return descriptions[name]
}

var descriptions = map[string]string{
	"default": "reference tuning: 200-sample window, quartile band",
	"smooth":  "small steps over a long window, the gain creeps",
	"snappy":  "short window and warm-up, coarse fast steps",
	"tight":   "narrow 0.40-0.60 band, reacts to nearly everything",
	"wide":    "wide 0.10-0.90 band, only outliers move the gain",
}

// presets maps scenario names to configuration builders. Builders
// start from the defaults so presets inherit future default changes.
var presets = map[string]func() envelope.Config{
	"default": envelope.DefaultConfig,

	// Smaller steps over a longer history: the gain creeps rather
	// than jumps.
	"smooth": func() envelope.Config {
		cfg := envelope.DefaultConfig()
		cfg.WindowSize = 400
		cfg.StepFraction = 0.02
		return cfg
	},

	// Short window and warm-up with coarse steps for fast reaction.
	"snappy": func() envelope.Config {
		cfg := envelope.DefaultConfig()
		cfg.WindowSize = 50
		cfg.WarmupSamples = 10
		cfg.StepFraction = 0.10
		return cfg
	},

	// Narrow band: most samples land outside it, so the gain adjusts
	// on nearly every step.
	"tight": func() envelope.Config {
		cfg := envelope.DefaultConfig()
		cfg.LowerQuantile = 0.4
		cfg.UpperQuantile = 0.6
		return cfg
	},

	// Wide band: only genuine outliers move the gain.
	"wide": func() envelope.Config {
		cfg := envelope.DefaultConfig()
		cfg.LowerQuantile = 0.1
		cfg.UpperQuantile = 0.9
		return cfg
	},
}
