package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application.
func (m Model) View() string {
	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case SceneSweep:
		content = m.sweepModel.View()
	case SceneCurves:
		content = m.curvesModel.View()
	case SceneRates:
		content = m.ratesModel.View()
	case SceneSummary:
		content = m.summaryModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with the title bar and status bar.
func (m Model) renderApp(content string) string {
	titleBar := m.renderTitleBar()
	statusBar := m.renderStatusBar()

	contentHeight := m.height - 4 // title (2) + status (1) + padding (1)
	contentContainer := lipgloss.NewStyle().
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		contentContainer,
		statusBar,
	)
}

// renderTitleBar renders the application title and breadcrumb.
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("macgen - Abatement Cost Curves")

	breadcrumb := m.currentScene.String()
	if m.result != nil && m.result.Ran {
		breadcrumb = fmt.Sprintf("%s / %s", m.currentScene.String(), m.result.ScenarioName)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		SubtitleStyle.Render(breadcrumb),
	)
}

// renderStatusBar renders the bottom bar with keyboard shortcuts and
// the loaded scenario name.
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("r", "run sweep"),
		formatShortcut("c", "curves"),
		formatShortcut("d", "rates"),
		formatShortcut("s", "summary"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}

	statusText := strings.Join(shortcuts, " • ")

	if m.config != nil {
		configName := SubtitleStyle.Render(m.config.Scenario.Name)
		width := m.width - lipgloss.Width(statusText) - lipgloss.Width(configName) - 4
		if width > 0 {
			statusText = statusText + strings.Repeat(" ", width) + configName
		}
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description.
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderError renders an error message.
func (m Model) renderError() string {
	content := ErrorStyle.Render(fmt.Sprintf(
		"Error: %s\n\nPress any key to continue...", m.err.Error()))
	return m.renderApp(content)
}

// renderHelp renders the help screen.
func (m Model) renderHelp() string {
	helpText := `
macgen - Abatement Cost Curve Calculator

KEYBOARD SHORTCUTS:
  h        Home dashboard
  r        Run the abatement cost sweep
  c        Browse curves
  d        Explore discount rates
  s        Cost summary
  ?        Show this help
  ESC      Go back
  q/Ctrl+C Quit

CURVES:
  ←/→ cycle through model periods
  Tab switches between period abatement curves
  and regional cost-versus-year curves

DISCOUNT RATES:
  ↑/↓ pick a slider, ←/→ adjust it
  Costs are re-discounted instantly; the model
  is never re-solved

THE SWEEP:
  Each trial re-solves the scenario with the baseline
  tax scaled by k/N. Marginal abatement cost curves are
  fitted per period and region, then integrated and
  discounted into regional and global policy costs.
`

	return BorderStyle.Render(helpText)
}
