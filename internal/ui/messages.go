package ui

import (
	"github.com/StevenSrebranig/SECL/internal/feedback"
)

// ProgressMsg represents a progress update from the running loop
type ProgressMsg struct {
	Step        int     // 1-based step number
	Progress    float64 // 0.0 to 1.0
	Measurement float64 // Latest measurement fed to the controller
	Gain        float64 // Gain after this step
	Low         float64 // Current lower envelope bound
	High        float64 // Current upper envelope bound
	Warm        bool    // Whether the controller has left warm-up
}

// RunStartMsg indicates a new scenario run has started
type RunStartMsg struct {
	RunIndex int
	Scenario string
}

// RunCompleteMsg indicates a scenario run has finished
type RunCompleteMsg struct {
	RunIndex int
	Result   *feedback.RunResult
	Error    error
}

// AllCompleteMsg indicates all scenario runs have finished
type AllCompleteMsg struct{}
