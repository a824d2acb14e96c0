package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/macgen/macgen/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.homeModel.SetSize(msg.Width, msg.Height)
		m.sweepModel.SetSize(msg.Width, msg.Height)
		m.curvesModel.SetSize(msg.Width, msg.Height)
		m.ratesModel.SetSize(msg.Width, msg.Height)
		m.summaryModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case TickMsg:
		if m.sweeping {
			m.sweepModel.Tick()
			return m, tickCmd()
		}
		return m, nil

	case tuimsg.ErrorMsg:
		m.err = msg.Err
		m.sweeping = false
		return m, nil

	case tuimsg.ConfigLoadedMsg:
		m.config = msg.Config
		m.homeModel.SetConfig(msg.Config)
		return m, nil

	case tuimsg.SweepStartedMsg:
		m.sweeping = true
		m.sweepModel.Start(msg.ScenarioName, msg.TotalTrials)
		m.previousScene = m.currentScene
		m.currentScene = SceneSweep
		return m, tea.Batch(waitForSweepEvent(m.sweepEvents), tickCmd())

	case tuimsg.SweepPhaseMsg:
		m.sweepModel.SetPhase(msg.Phase)
		return m, waitForSweepEvent(m.sweepEvents)

	case tuimsg.SweepTrialMsg:
		m.sweepModel.RecordTrial(msg.Trial, msg.Total, msg.Solved)
		return m, waitForSweepEvent(m.sweepEvents)

	case tuimsg.SweepCompleteMsg:
		m.sweeping = false
		m.sweepModel.Finish(msg.Result, msg.Err)
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.result = msg.Result
		m.calc = msg.Calc
		if msg.Result.Ran {
			m.curvesModel.SetSweep(msg.Result)
			m.summaryModel.SetSweep(msg.Result)
			m.ratesModel.SetSweep(msg.Result,
				m.config.Options.DiscountRate(), m.config.Options.DiscountStartYear())
		}
		return m, nil

	case tuimsg.DiscountChangedMsg:
		if m.calc == nil || m.result == nil {
			return m, nil
		}
		summary, err := m.calc.AggregateAt(m.result, msg.Rate, msg.StartYear)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.ratesModel.SetSummary(summary)
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input. Global shortcuts win;
// everything else goes to the current scene.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses an error overlay.
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		if m.currentScene != SceneHelp {
			return m, navigateCmd(SceneHelp)
		}

	case "esc":
		if m.currentScene != SceneHome {
			if m.previousScene != SceneHome && m.previousScene != m.currentScene {
				return m, navigateCmd(m.previousScene)
			}
			return m, navigateCmd(SceneHome)
		}

	case "h":
		if m.currentScene != SceneHome {
			return m, navigateCmd(SceneHome)
		}

	case "r":
		if m.sweeping {
			return m, navigateCmd(SceneSweep)
		}
		if m.config != nil {
			return m, startSweepCmd(m.config, m.logger, m.sweepEvents)
		}

	case "c":
		if m.currentScene != SceneCurves {
			return m, navigateCmd(SceneCurves)
		}

	case "d":
		if m.currentScene != SceneRates {
			return m, navigateCmd(SceneRates)
		}

	case "s":
		if m.currentScene != SceneSummary {
			return m, navigateCmd(SceneSummary)
		}
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates a message to the active scene's model.
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case SceneSweep:
		m.sweepModel, cmd = m.sweepModel.Update(msg)
	case SceneCurves:
		m.curvesModel, cmd = m.curvesModel.Update(msg)
	case SceneRates:
		m.ratesModel, cmd = m.ratesModel.Update(msg)
	case SceneSummary:
		m.summaryModel, cmd = m.summaryModel.Update(msg)
	}
	return m, cmd
}
