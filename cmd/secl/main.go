package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/StevenSrebranig/SECL/internal/cli"
	"github.com/StevenSrebranig/SECL/internal/envelope"
	"github.com/StevenSrebranig/SECL/internal/feedback"
	"github.com/StevenSrebranig/SECL/internal/profiles"
	"github.com/StevenSrebranig/SECL/internal/report"
	"github.com/StevenSrebranig/SECL/internal/signal"
	"github.com/StevenSrebranig/SECL/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool `short:"v" help:"Show version information"`

	// Run shape
	Steps int    `help:"Steps to run per scenario" default:"1000" env:"SECL_STEPS"`
	Seed  uint64 `help:"Seed for the signal source" default:"1" env:"SECL_SEED"`

	// Signal source parameters
	Level float64 `help:"Initial true level of the signal" default:"1.0" env:"SECL_LEVEL"`
	Drift float64 `help:"Level drift span per step (uniform ±span)" default:"0.001" env:"SECL_DRIFT"`
	Noise float64 `help:"Measurement noise sigma" default:"0.1" env:"SECL_NOISE"`

	// Controller overrides, applied on top of the scenario preset.
	// Unset flags leave the preset value alone.
	WindowSize   *int     `help:"Override the rolling window size" env:"SECL_WINDOW_SIZE"`
	LowerQ       *float64 `help:"Override the lower quantile" env:"SECL_LOWER_Q"`
	UpperQ       *float64 `help:"Override the upper quantile" env:"SECL_UPPER_Q"`
	StepFraction *float64 `help:"Override the gain step fraction" env:"SECL_STEP_FRACTION"`
	InitialGain  *float64 `help:"Override the initial gain" env:"SECL_INITIAL_GAIN"`
	MinGain      *float64 `help:"Override the gain floor" env:"SECL_MIN_GAIN"`
	MaxGain      *float64 `help:"Override the gain ceiling" env:"SECL_MAX_GAIN"`
	Warmup       *int     `help:"Override the warm-up sample count" env:"SECL_WARMUP"`

	Report bool `help:"Write a report file per scenario" env:"SECL_REPORT"`
	Plain  bool `short:"p" help:"Plain console output instead of the TUI" env:"SECL_PLAIN"`

	Scenarios []string `arg:"" name:"scenarios" help:"Scenario presets to run" optional:""`
}

// scenarioRun is one queued scenario with its resolved configuration
type scenarioRun struct {
	Name   string
	Config envelope.Config
}

func main() {
	// A .env file can seed the SECL_* variables read by the flags
	_ = godotenv.Load()

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("secl"),
		kong.Description("Statistical envelope control loop simulator"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Resolve scenario presets and flag overrides
	runs, err := resolveScenarios(cliArgs)
	if err != nil {
		cli.PrintError(err.Error())
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	srcConfig := signal.SourceConfig{
		InitialLevel: cliArgs.Level,
		DriftSpan:    cliArgs.Drift,
		NoiseSigma:   cliArgs.Noise,
		Seed:         cliArgs.Seed,
	}

	if cliArgs.Plain {
		if err := runPlain(cliArgs, runs, srcConfig); err != nil {
			cli.PrintError(err.Error())
			os.Exit(1)
		}
		return
	}

	if err := runTUI(cliArgs, runs, srcConfig); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// resolveScenarios maps the positional scenario names to controller
// configurations, applies flag overrides and validates the result.
// No scenarios means the default preset.
func resolveScenarios(c *CLI) ([]scenarioRun, error) {
	names := c.Scenarios
	if len(names) == 0 {
		names = []string{"default"}
	}

	runs := make([]scenarioRun, 0, len(names))
	for _, name := range names {
		cfg, ok := profiles.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (available: %s)",
				name, strings.Join(profiles.Names(), ", "))
		}

		cfg = applyOverrides(cfg, c)
		if _, err := envelope.New(cfg); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", name, err)
		}

		runs = append(runs, scenarioRun{Name: name, Config: cfg})
	}
	return runs, nil
}

// applyOverrides copies set controller flags over the preset values
func applyOverrides(cfg envelope.Config, c *CLI) envelope.Config {
	if c.WindowSize != nil {
		cfg.WindowSize = *c.WindowSize
	}
	if c.LowerQ != nil {
		cfg.LowerQuantile = *c.LowerQ
	}
	if c.UpperQ != nil {
		cfg.UpperQuantile = *c.UpperQ
	}
	if c.StepFraction != nil {
		cfg.StepFraction = *c.StepFraction
	}
	if c.InitialGain != nil {
		cfg.InitialGain = *c.InitialGain
	}
	if c.MinGain != nil {
		cfg.MinGain = *c.MinGain
	}
	if c.MaxGain != nil {
		cfg.MaxGain = *c.MaxGain
	}
	if c.Warmup != nil {
		cfg.WarmupSamples = *c.Warmup
	}
	return cfg
}

// runPlain runs every scenario sequentially with slog progress lines
// and a console summary per run.
func runPlain(c *CLI, runs []scenarioRun, srcConfig signal.SourceConfig) error {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05",
	}))

	for _, sc := range runs {
		logger.Info("starting scenario",
			"scenario", sc.Name,
			"steps", c.Steps,
			"seed", c.Seed,
		)

		ctrl, err := envelope.New(sc.Config)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		src := signal.NewSource(srcConfig)

		start := time.Now()
		runner := feedback.New(ctrl, src, c.Steps, feedback.WithLogger(logger))
		result, err := runner.Run()
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}

		logger.Info("scenario complete",
			"scenario", sc.Name,
			"final_gain", result.FinalGain,
			"elapsed", result.Elapsed,
		)

		data := report.ReportData{
			Scenario:  sc.Name,
			Source:    srcConfig,
			Result:    result,
			StartTime: start,
			EndTime:   time.Now(),
		}
		report.DisplayRunSummary(os.Stdout, data)

		if c.Report {
			path := reportPath(sc.Name)
			if err := report.SaveReport(path, data); err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			logger.Info("report written", "path", path)
		}
	}
	return nil
}

// runTUI runs every scenario behind the Bubbletea interface, feeding
// loop progress through the model's message channel.
func runTUI(c *CLI, runs []scenarioRun, srcConfig signal.SourceConfig) error {
	names := make([]string, len(runs))
	for i, sc := range runs {
		names[i] = sc.Name
	}

	model := ui.NewModel(names, c.Steps)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Keep the view responsive without flooding it: roughly one
	// progress message per percent of the run.
	interval := c.Steps / 100
	if interval < 1 {
		interval = 1
	}

	// Run the scenarios in the background
	go func() {
		for i, sc := range runs {
			model.ProgressChan <- ui.RunStartMsg{RunIndex: i, Scenario: sc.Name}

			ctrl, err := envelope.New(sc.Config)
			if err != nil {
				model.ProgressChan <- ui.RunCompleteMsg{RunIndex: i, Error: err}
				continue
			}
			src := signal.NewSource(srcConfig)

			runner := feedback.New(ctrl, src, c.Steps,
				feedback.WithProgressInterval(interval),
				feedback.WithProgress(func(step int, progress float64, sample signal.Sample, gain, low, high float64) {
					model.ProgressChan <- ui.ProgressMsg{
						Step:        step,
						Progress:    progress,
						Measurement: sample.Measurement,
						Gain:        gain,
						Low:         low,
						High:        high,
						Warm:        ctrl.Warm(),
					}
				}),
			)

			result, err := runner.Run()
			if err != nil {
				model.ProgressChan <- ui.RunCompleteMsg{RunIndex: i, Error: err}
				continue
			}

			model.ProgressChan <- ui.RunCompleteMsg{RunIndex: i, Result: result}
		}

		model.ProgressChan <- ui.AllCompleteMsg{}
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("UI error: %w", err)
	}

	// Write report files once the UI has released the terminal
	if c.Report {
		finalModel, ok := final.(ui.Model)
		if !ok {
			return nil
		}
		for _, run := range finalModel.Runs {
			if run.Status != ui.StatusComplete || run.Result == nil {
				continue
			}

			data := report.ReportData{
				Scenario:  run.Scenario,
				Source:    srcConfig,
				Result:    run.Result,
				StartTime: run.StartTime,
				EndTime:   run.StartTime.Add(run.Result.Elapsed),
			}
			path := reportPath(run.Scenario)
			if err := report.SaveReport(path, data); err != nil {
				cli.PrintError(fmt.Sprintf("report for %s: %v", run.Scenario, err))
				continue
			}
			fmt.Printf("%s %s\n", cli.KeyStyle.Render("Report:"), cli.ValueStyle.Render(path))
		}
	}
	return nil
}

// reportPath names the report file for a scenario
func reportPath(scenario string) string {
	return fmt.Sprintf("secl-%s-report.txt", scenario)
}
