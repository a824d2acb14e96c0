// Package tui is the interactive terminal front end: load a scenario
// configuration, run the abatement cost sweep with live progress, and
// browse the fitted curves and cost summaries.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/policycost"
	"github.com/macgen/macgen/internal/scenario"
	"github.com/macgen/macgen/internal/tui/scenes"
	"github.com/macgen/macgen/internal/tui/tuimsg"
)

// tickInterval paces the spinner animation.
const tickInterval = 100 * time.Millisecond

// Model is the root application state.
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Configuration
	configPath string
	config     *config.Config
	logger     *zap.Logger

	// Sweep state. The calculator streams progress into sweepEvents
	// from its own goroutine; Update drains it one message at a time.
	sweepEvents chan tea.Msg
	sweeping    bool
	calc        *policycost.Calculator
	result      *domain.SweepResult

	// Scene models
	homeModel    *scenes.HomeModel
	sweepModel   *scenes.SweepModel
	curvesModel  *scenes.CurvesModel
	ratesModel   *scenes.RatesModel
	summaryModel *scenes.SummaryModel

	// Error state
	err error
}

// NewModel creates the root model for the given configuration file.
func NewModel(configPath string, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		currentScene: SceneHome,
		configPath:   configPath,
		logger:       logger,
		sweepEvents:  make(chan tea.Msg, 16),
		homeModel:    scenes.NewHomeModel(),
		sweepModel:   scenes.NewSweepModel(),
		curvesModel:  scenes.NewCurvesModel(),
		ratesModel:   scenes.NewRatesModel(),
		summaryModel: scenes.NewSummaryModel(),
		width:        80,
		height:       24,
	}
}

// Init loads the configuration file.
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.configPath)
}

// loadConfigCmd returns a command that loads and validates the
// scenario configuration.
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.ConfigLoadedMsg{Config: cfg}
	}
}

// startSweepCmd builds the scenario and calculator, then runs the
// sweep in its own goroutine. Phase and trial callbacks stream into
// the events channel; the returned message flips the UI into the
// progress scene.
func startSweepCmd(cfg *config.Config, logger *zap.Logger, events chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		scn, err := scenario.NewStylized(&cfg.Scenario, logger)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}

		calc := policycost.NewCalculator(scn, policycost.Config{
			GasName:           cfg.Options.AbatedGas(),
			NumPoints:         cfg.Options.NumPoints(),
			DiscountRate:      cfg.Options.DiscountRate(),
			DiscountStartYear: cfg.Options.DiscountStartYear(),
			MarketCheckRegion: cfg.Options.MarketCheckRegion(),
		}, logger)
		calc.OnPhase = func(phase policycost.Phase) {
			events <- tuimsg.SweepPhaseMsg{Phase: phase}
		}
		calc.OnTrialComplete = func(trial, total int, ok bool) {
			events <- tuimsg.SweepTrialMsg{Trial: trial, Total: total, Solved: ok}
		}

		go func() {
			result, err := calc.CalculateAbatementCostCurve(context.Background())
			events <- tuimsg.SweepCompleteMsg{Result: result, Calc: calc, Err: err}
		}()

		return tuimsg.SweepStartedMsg{
			ScenarioName: cfg.Scenario.Name,
			TotalTrials:  cfg.Options.NumPoints(),
		}
	}
}

// waitForSweepEvent blocks on the next progress message from the
// sweep goroutine.
func waitForSweepEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func navigateCmd(scene Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}
