// Package ui provides the Bubbletea terminal user interface for secl
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/StevenSrebranig/SECL/internal/feedback"
)

// Spinner frames for the active run indicator
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RunStatus represents the lifecycle state of a single scenario run
type RunStatus int

const (
	StatusQueued RunStatus = iota
	StatusWarmingUp
	StatusAdapting
	StatusComplete
	StatusError
)

// RunProgress tracks progress for a single scenario run
type RunProgress struct {
	Scenario string
	Steps    int
	Status   RunStatus

	// Progress tracking (percentage-based)
	Progress    float64 // 0.0 to 1.0
	Step        int
	StartTime   time.Time
	ElapsedTime time.Duration

	// Live loop readings
	Measurement float64
	Gain        float64
	Low         float64
	High        float64
	GainTrace   []float64 // gain history sampled at the progress interval

	// Completion results
	Result *feedback.RunResult

	// Error tracking
	Error error
}

// Model is the Bubbletea model for the scenario run UI
type Model struct {
	// Scenario queue
	Runs          []RunProgress
	CurrentIndex  int
	TotalRuns     int
	CompletedRuns int
	FailedRuns    int

	// Global state
	StartTime time.Time
	Done      bool

	// Spinner state
	spinnerIndex int

	// Channel for receiving progress updates from the loop goroutine
	ProgressChan chan tea.Msg

	// Terminal dimensions
	Width  int
	Height int
}

// tickMsg is sent for spinner animation
type tickMsg time.Time

// NewModel creates a new UI model with the given scenario names.
// Every scenario runs for the same number of steps.
func NewModel(scenarios []string, steps int) Model {
	runs := make([]RunProgress, len(scenarios))
	for i, name := range scenarios {
		runs[i] = RunProgress{
			Scenario: name,
			Steps:    steps,
			Status:   StatusQueued,
		}
	}

	return Model{
		Runs:         runs,
		CurrentIndex: -1, // No run active yet
		TotalRuns:    len(scenarios),
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 100), // Buffered channel
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForProgress(m.ProgressChan), tickCmd())
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if !m.Done {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case ProgressMsg:
		// Update the current run's progress
		if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Runs) {
			m.Runs[m.CurrentIndex] = updateRunProgress(m.Runs[m.CurrentIndex], msg)
		}

		// Listen for the next progress message
		return m, waitForProgress(m.ProgressChan)

	case RunStartMsg:
		// Start the next scenario
		m.CurrentIndex = msg.RunIndex
		if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Runs) {
			m.Runs[m.CurrentIndex].Status = StatusWarmingUp
			m.Runs[m.CurrentIndex].StartTime = time.Now()
		}
		return m, waitForProgress(m.ProgressChan)

	case RunCompleteMsg:
		// Mark the run as complete
		if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Runs) {
			m.Runs[m.CurrentIndex].Status = StatusComplete
			m.Runs[m.CurrentIndex].Result = msg.Result
			m.Runs[m.CurrentIndex].Error = msg.Error

			if msg.Error != nil {
				m.Runs[m.CurrentIndex].Status = StatusError
				m.FailedRuns++
			} else {
				m.CompletedRuns++
			}
		}
		return m, waitForProgress(m.ProgressChan)

	case AllCompleteMsg:
		// All scenarios finished
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}

	if m.Done {
		return renderCompletionSummary(m)
	}

	return renderRunView(m)
}

// updateRunProgress updates a RunProgress based on a ProgressMsg
func updateRunProgress(run RunProgress, msg ProgressMsg) RunProgress {
	run.Step = msg.Step
	run.Progress = msg.Progress
	run.Measurement = msg.Measurement
	run.Gain = msg.Gain
	run.Low = msg.Low
	run.High = msg.High
	run.ElapsedTime = time.Since(run.StartTime)
	run.GainTrace = append(run.GainTrace, msg.Gain)

	if msg.Warm {
		run.Status = StatusAdapting
	} else {
		run.Status = StatusWarmingUp
	}

	return run
}

// waitForProgress creates a command that waits for progress messages
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
