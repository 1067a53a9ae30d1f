package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/StevenSrebranig/SECL/internal/report"
)

// renderRunView renders the main scenario queue view
func renderRunView(m Model) string {
	var b strings.Builder

	// Header
	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	// Scenario queue
	b.WriteString(renderRunQueue(m))
	b.WriteString("\n\n")

	// Overall progress
	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#0087AF")).
		Render("SECL 🎛 - Envelope Control Loop")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Running %d scenario(s), %d steps each", m.TotalRuns, stepsPerRun(m)))

	return title + "\n" + subtitle
}

// stepsPerRun reads the step count off the queue. Every run uses the
// same count.
func stepsPerRun(m Model) int {
	if len(m.Runs) == 0 {
		return 0
	}
	return m.Runs[0].Steps
}

// renderRunQueue renders the list of scenarios with their status
func renderRunQueue(m Model) string {
	var b strings.Builder

	for _, run := range m.Runs {
		b.WriteString(renderRunEntry(run, spinnerFrames[m.spinnerIndex]))
		b.WriteString("\n")
	}

	return b.String()
}

// renderRunEntry renders a single scenario entry in the queue
func renderRunEntry(run RunProgress, spinner string) string {
	switch run.Status {
	case StatusComplete:
		// ✓ completed run with summary
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		return fmt.Sprintf(" %s %s\n   %s", icon, run.Scenario, completedRunSummary(run))

	case StatusWarmingUp, StatusAdapting:
		// Spinner marks the active run with detailed progress
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#0087AF")).Render(spinner)
		return fmt.Sprintf(" %s %s\n%s", icon, run.Scenario, renderRunDetails(run))

	case StatusError:
		// ✗ failed run
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, run.Scenario, run.Error)

	default:
		// ○ queued run
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, run.Scenario)
	}
}

// completedRunSummary is the one-line result shown under a finished
// scenario while later runs are still in flight.
func completedRunSummary(run RunProgress) string {
	r := run.Result
	if r == nil {
		return "Complete"
	}
	return fmt.Sprintf("Final gain: %.3f | Band: [%.3f, %.3f]",
		r.FinalGain, r.FinalLow, r.FinalHigh)
}

// renderRunDetails renders detailed progress for the active run
func renderRunDetails(run RunProgress) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#0087AF")).
		Padding(0, 1).
		Width(60)

	var content strings.Builder

	// Phase indicator
	phase := "Adapting"
	if run.Status == StatusWarmingUp {
		phase = "Warming Up"
	}
	content.WriteString(fmt.Sprintf("Step %d/%d: %s\n", run.Step, run.Steps, phase))

	// Progress bar
	content.WriteString(renderProgressBar(run.Progress, 40))
	content.WriteString("\n\n")

	// Time estimates
	elapsed := run.ElapsedTime.Seconds()
	var remaining float64
	if run.Progress > 0 {
		remaining = (elapsed / run.Progress) - elapsed
	}
	content.WriteString(fmt.Sprintf("⏱  Elapsed: %.1fs | Remaining: ~%.1fs\n", elapsed, remaining))

	// Live loop readings
	content.WriteString(fmt.Sprintf("📊 Gain: %.3f | Band: [%.3f, %.3f]",
		run.Gain, run.Low, run.High))

	// Gain trace so far
	if spark := report.Sparkline(run.GainTrace, 40); spark != "" {
		content.WriteString("\n")
		content.WriteString(spark)
	}

	return box.Render(content.String())
}

// renderProgressBar renders a progress bar
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %d%%", bar, percentage)
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	// Show the scenario currently running
	var content string
	if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Runs) {
		currentRun := m.CurrentIndex + 1 // 1-indexed for display
		content = fmt.Sprintf("Running scenario %d of %d (%d complete)",
			currentRun, m.TotalRuns, m.CompletedRuns)
	} else {
		content = fmt.Sprintf("Overall Progress: %d/%d complete", m.CompletedRuns, m.TotalRuns)
	}

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	// Completion header
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("✨ All scenarios complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	// Summary for each run
	for _, run := range m.Runs {
		switch run.Status {
		case StatusComplete:
			b.WriteString(renderCompletedRun(run))
			b.WriteString("\n")
		case StatusError:
			icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
			b.WriteString(fmt.Sprintf(" %s %s\n   Error: %v\n", icon, run.Scenario, run.Error))
		}
	}

	// Overall summary
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d of %d scenarios completed", m.CompletedRuns, m.TotalRuns))
	if m.FailedRuns > 0 {
		b.WriteString(fmt.Sprintf(", %d failed", m.FailedRuns))
	}
	b.WriteString("\n")

	return b.String()
}

// renderCompletedRun renders a summary for a completed run
func renderCompletedRun(run RunProgress) string {
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")

	r := run.Result
	if r == nil || len(r.Gains) == 0 {
		return fmt.Sprintf(" %s %s", icon, run.Scenario)
	}

	line := fmt.Sprintf("Final gain: %.3f", r.FinalGain)
	if first := r.Gains[0]; first != 0 {
		line += fmt.Sprintf(" (%+.1f%% net)", (r.FinalGain-first)/first*100)
	}
	line += fmt.Sprintf(" | Band: [%.3f, %.3f] | Warm-up: %d steps",
		r.FinalLow, r.FinalHigh, r.Warmup)

	return fmt.Sprintf(" %s %s\n   %s\n   %s",
		icon, run.Scenario, line, report.Sparkline(r.Gains, 56))
}
