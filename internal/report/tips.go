package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/StevenSrebranig/SECL/internal/feedback"
)

// TuningTip represents a single piece of actionable tuning advice
// derived from a completed run's trajectory.
type TuningTip struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "gain_at_floor")
}

// MaxTuningTips is the maximum number of tips to return.
const MaxTuningTips = 4

// GenerateTuningTips analyses a run trajectory and returns prioritised
// configuration improvement suggestions.
func GenerateTuningTips(r *feedback.RunResult) []TuningTip {
	if r == nil || len(r.Gains) == 0 {
		return nil
	}

	var tips []TuningTip
	firedRules := make(map[string]bool)

	rules := []func(*feedback.RunResult) *TuningTip{
		tipNeverWarmed,
		tipGainAtFloor,
		tipGainAtCeiling,
		tipGainHunting,
		tipWarmupDominant,
		tipBandTight,
		tipBandIdle,
	}

	for _, rule := range rules {
		if tip := rule(r); tip != nil {
			tips = append(tips, *tip)
			firedRules[tip.RuleID] = true
		}
	}

	// Apply mutual exclusion
	tips = applyExclusions(tips, firedRules)

	// Sort by priority (descending)
	sort.Slice(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	// Cap at maximum
	if len(tips) > MaxTuningTips {
		tips = tips[:MaxTuningTips]
	}

	return tips
}

// applyExclusions removes tips that are redundant when a more specific
// tip has already fired. For example, "band_tight" is suppressed when
// the gain is saturated or hunting because those already explain the
// constant movement.
func applyExclusions(tips []TuningTip, fired map[string]bool) []TuningTip {
	var result []TuningTip
	for _, tip := range tips {
		switch tip.RuleID {
		case "band_tight":
			if fired["gain_at_floor"] || fired["gain_at_ceiling"] || fired["gain_hunting"] {
				continue
			}
		case "band_idle":
			if fired["warmup_dominant"] {
				continue
			}
		}
		result = append(result, tip)
	}
	return result
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

// adaptingSteps returns how many steps ran after the warm-up hold.
func adaptingSteps(r *feedback.RunResult) int {
	return r.Steps - r.Warmup
}

// adjustmentFraction returns the share of adapting steps on which the
// gain actually moved. Returns 0 when no steps adapted.
func adjustmentFraction(r *feedback.RunResult) float64 {
	adapting := adaptingSteps(r)
	if adapting <= 0 {
		return 0
	}

	moves := 0
	for i := r.Warmup + 1; i < len(r.Gains); i++ {
		if r.Gains[i] != r.Gains[i-1] {
			moves++
		}
	}
	return float64(moves) / float64(adapting)
}

// flipFraction returns how often consecutive gain moves reverse
// direction, as a share of move pairs, along with the move count.
func flipFraction(r *feedback.RunResult) (float64, int) {
	var signs []int
	for i := r.Warmup + 1; i < len(r.Gains); i++ {
		switch {
		case r.Gains[i] > r.Gains[i-1]:
			signs = append(signs, 1)
		case r.Gains[i] < r.Gains[i-1]:
			signs = append(signs, -1)
		}
	}
	if len(signs) < 2 {
		return 0, len(signs)
	}

	flips := 0
	for i := 1; i < len(signs); i++ {
		if signs[i] != signs[i-1] {
			flips++
		}
	}
	return float64(flips) / float64(len(signs)-1), len(signs)
}

// pinnedShare returns the fraction of adapting steps the gain spent
// exactly on the given bound.
func pinnedShare(r *feedback.RunResult, bound float64) float64 {
	adapting := adaptingSteps(r)
	if adapting <= 0 {
		return 0
	}

	pinned := 0
	for i := r.Warmup; i < len(r.Gains); i++ {
		if r.Gains[i] == bound {
			pinned++
		}
	}
	return float64(pinned) / float64(adapting)
}

// tipNeverWarmed fires when the run ended inside the warm-up hold,
// meaning the controller never adapted at all.
func tipNeverWarmed(r *feedback.RunResult) *TuningTip {
	if r.Warmup < r.Steps {
		return nil
	}
	return &TuningTip{
		Priority: 10,
		RuleID:   "never_warmed",
		Message: fmt.Sprintf("The run ended before the warm-up completed, so the gain never adapted. Run at least %d steps or reduce the warm-up below %d samples.",
			r.Config.WarmupSamples, r.Config.WarmupSamples),
	}
}

// tipGainAtFloor fires when the gain spent a meaningful share of the
// adapting phase pinned at MinGain, meaning measurements kept running
// above the envelope. Threshold: 10% of adapting steps.
func tipGainAtFloor(r *feedback.RunResult) *TuningTip {
	share := pinnedShare(r, r.Config.MinGain)
	if share <= 0.10 {
		return nil
	}
	return &TuningTip{
		Priority: 9,
		RuleID:   "gain_at_floor",
		Message: fmt.Sprintf("The gain spent %.0f%% of the run pinned at its floor of %g - the signal keeps outrunning the envelope. Lower the source level, enlarge the window, or relax the floor.",
			share*100, r.Config.MinGain),
	}
}

// tipGainAtCeiling fires when the gain spent a meaningful share of the
// adapting phase pinned at MaxGain. Threshold: 10% of adapting steps.
func tipGainAtCeiling(r *feedback.RunResult) *TuningTip {
	share := pinnedShare(r, r.Config.MaxGain)
	if share <= 0.10 {
		return nil
	}
	return &TuningTip{
		Priority: 9,
		RuleID:   "gain_at_ceiling",
		Message: fmt.Sprintf("The gain spent %.0f%% of the run pinned at its ceiling of %g - the signal sits persistently below the envelope. Raise the source level, enlarge the window, or relax the ceiling.",
			share*100, r.Config.MaxGain),
	}
}

// tipGainHunting fires when gain moves reverse direction more often
// than they persist, indicating the loop overshoots on every step.
// Requires at least 10 moves so short runs cannot trigger it.
func tipGainHunting(r *feedback.RunResult) *TuningTip {
	flips, moves := flipFraction(r)
	if moves < 10 || flips <= 0.6 {
		return nil
	}
	return &TuningTip{
		Priority: 8,
		RuleID:   "gain_hunting",
		Message: fmt.Sprintf("The gain reversed direction on %.0f%% of its moves - the loop is hunting. Reduce the step below %g or spread the quantiles further apart.",
			flips*100, r.Config.StepFraction),
	}
}

// tipWarmupDominant fires when warm-up consumed more than a quarter of
// the run, leaving the statistics dominated by held gain.
func tipWarmupDominant(r *feedback.RunResult) *TuningTip {
	if r.Steps == 0 || r.Warmup >= r.Steps {
		return nil
	}
	share := float64(r.Warmup) / float64(r.Steps)
	if share <= 0.25 {
		return nil
	}
	return &TuningTip{
		Priority: 6,
		RuleID:   "warmup_dominant",
		Message: fmt.Sprintf("Warm-up consumed %.0f%% of the run, so most of the trajectory shows held gain. Extend the run well past %d steps or reduce the warm-up.",
			share*100, r.Config.WarmupSamples),
	}
}

// tipBandTight fires when the gain moved on nearly every adapting step,
// meaning the quantile band is too narrow to absorb ordinary noise.
func tipBandTight(r *feedback.RunResult) *TuningTip {
	if adaptingSteps(r) < 50 || adjustmentFraction(r) <= 0.9 {
		return nil
	}
	return &TuningTip{
		Priority: 5,
		RuleID:   "band_tight",
		Message: fmt.Sprintf("The gain moved on almost every step - the band between the %.2f and %.2f quantiles is too narrow to absorb normal noise. Spread the quantiles further apart.",
			r.Config.LowerQuantile, r.Config.UpperQuantile),
	}
}

// tipBandIdle fires when the gain barely moved across a long adapting
// phase, meaning the band swallows nearly every sample.
func tipBandIdle(r *feedback.RunResult) *TuningTip {
	if adaptingSteps(r) < 50 || adjustmentFraction(r) >= 0.02 {
		return nil
	}
	return &TuningTip{
		Priority: 4,
		RuleID:   "band_idle",
		Message: fmt.Sprintf("The gain barely moved all run - the band between the %.2f and %.2f quantiles swallows nearly every sample. Tighten the quantiles if you expected active regulation.",
			r.Config.LowerQuantile, r.Config.UpperQuantile),
	}
}
