package scenes

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/policycost"
	"github.com/macgen/macgen/internal/tui/components"
	"github.com/macgen/macgen/internal/tui/tuistyles"
)

// SweepModel is the progress scene for a running abatement cost sweep.
// The root model feeds it phase and trial events as the calculator
// reports them.
type SweepModel struct {
	scenarioName string
	totalTrials  int
	trialsDone   int
	trialsFailed int
	phase        policycost.Phase

	spinner *components.Spinner
	running bool
	done    bool
	ran     bool
	success bool
	err     error

	width  int
	height int
}

// NewSweepModel creates a new sweep progress scene model.
func NewSweepModel() *SweepModel {
	return &SweepModel{
		spinner: components.NewSpinner(),
	}
}

// Start resets the scene for a fresh sweep.
func (m *SweepModel) Start(scenarioName string, totalTrials int) {
	m.scenarioName = scenarioName
	m.totalTrials = totalTrials
	m.trialsDone = 0
	m.trialsFailed = 0
	m.phase = policycost.PhaseNotRun
	m.running = true
	m.done = false
	m.ran = false
	m.success = false
	m.err = nil
}

// SetPhase records the sweep advancing to a new phase.
func (m *SweepModel) SetPhase(phase policycost.Phase) {
	m.phase = phase
}

// RecordTrial records one scaled-tax trial finishing.
func (m *SweepModel) RecordTrial(trial, total int, solved bool) {
	m.trialsDone = trial + 1
	m.totalTrials = total
	if !solved {
		m.trialsFailed++
	}
}

// Finish records the sweep outcome.
func (m *SweepModel) Finish(result *domain.SweepResult, err error) {
	m.running = false
	m.done = true
	m.err = err
	if result != nil {
		m.ran = result.Ran
		m.success = result.Success
	}
}

// Tick advances the spinner animation.
func (m *SweepModel) Tick() {
	m.spinner.Next()
}

// Running reports whether a sweep is in flight.
func (m *SweepModel) Running() bool {
	return m.running
}

// SetSize updates the scene dimensions.
func (m *SweepModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the sweep scene. All state changes come
// through the root model, so the scene is passive.
func (m *SweepModel) Update(msg tea.Msg) (*SweepModel, tea.Cmd) {
	return m, nil
}

// View renders the sweep progress.
func (m *SweepModel) View() string {
	if !m.running && !m.done {
		return m.renderIdle()
	}
	if m.done && m.err != nil {
		return tuistyles.ErrorStyle.Render("Sweep failed: " + m.err.Error())
	}
	if m.done && !m.ran {
		return m.renderSkipped()
	}

	panel := components.NewProgressPanel("Abatement Cost Sweep: " + m.scenarioName).
		AddItem(m.trialItem()).
		AddItem(components.ProgressItem{
			Label:  "Fit period abatement curves",
			Status: m.stepStatus(policycost.PhaseBuildingPeriodCurves),
		}).
		AddItem(components.ProgressItem{
			Label:  "Aggregate regional cost curves",
			Status: m.stepStatus(policycost.PhaseAggregatingRegionalCurves),
		})

	sections := []string{panel.Render()}
	if m.running {
		sections = append(sections, "", m.spinner.WithMessage(m.phaseMessage()).Render())
	}
	if m.done {
		sections = append(sections, "", m.renderOutcome())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *SweepModel) renderIdle() string {
	return tuistyles.BorderStyle.Render(
		"No sweep has been run yet.\n\n" +
			"Press 'r' to re-solve the scenario under scaled-down taxes\n" +
			"and build the abatement cost curves.")
}

func (m *SweepModel) renderSkipped() string {
	msg := tuistyles.InfoStyle.Render("No policy market detected in the probe region.") +
		"\n\nThe sweep was skipped: an unconstrained model run has no\n" +
		"abatement cost to report."
	return tuistyles.BorderStyle.Render(msg)
}

func (m *SweepModel) trialItem() components.ProgressItem {
	item := components.ProgressItem{
		Label:  "Solve scaled tax trials",
		Status: m.stepStatus(policycost.PhaseRunningTrials),
	}
	if m.phase >= policycost.PhaseRunningTrials {
		item.Progress = components.NewProgressBar(m.trialsDone, m.totalTrials).WithWidth(30)
	}
	if m.trialsFailed > 0 {
		item.Message = fmt.Sprintf("%d trial(s) failed to solve", m.trialsFailed)
	}
	return item
}

func (m *SweepModel) stepStatus(step policycost.Phase) components.ItemStatus {
	switch {
	case m.phase > step:
		return components.StatusComplete
	case m.phase == step:
		return components.StatusRunning
	default:
		return components.StatusPending
	}
}

func (m *SweepModel) phaseMessage() string {
	switch m.phase {
	case policycost.PhaseRunningTrials:
		return fmt.Sprintf("Re-solving under scaled taxes (%d of %d done)...",
			m.trialsDone, m.totalTrials)
	case policycost.PhaseBuildingPeriodCurves:
		return "Fitting marginal abatement cost curves..."
	case policycost.PhaseAggregatingRegionalCurves:
		return "Integrating regional cost curves..."
	default:
		return "Starting sweep..."
	}
}

func (m *SweepModel) renderOutcome() string {
	if m.success {
		style := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorSuccess)
		return style.Render("✓ Sweep complete.") +
			" Press 's' for the cost summary or 'c' to browse curves."
	}
	return tuistyles.WarnStyle.Render(fmt.Sprintf(
		"⚠ Sweep finished with %d failed trial(s); reported costs may be incomplete.",
		m.trialsFailed))
}
