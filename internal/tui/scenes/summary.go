package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/tui/components"
	"github.com/macgen/macgen/internal/tui/tuistyles"
)

// SummaryModel is the results scene: headline cost metrics and the
// per-region policy cost table of a completed sweep.
type SummaryModel struct {
	result *domain.SweepResult
	width  int
	height int
}

// NewSummaryModel creates a new summary scene model.
func NewSummaryModel() *SummaryModel {
	return &SummaryModel{}
}

// SetSweep installs a completed sweep.
func (m *SummaryModel) SetSweep(result *domain.SweepResult) {
	m.result = result
}

// SetSize updates the scene dimensions.
func (m *SummaryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the summary scene, which is read-only.
func (m *SummaryModel) Update(msg tea.Msg) (*SummaryModel, tea.Cmd) {
	return m, nil
}

// View renders the summary scene.
func (m *SummaryModel) View() string {
	if m.result == nil || !m.result.Ran {
		return renderNoSummaryState()
	}

	sections := []string{
		m.renderHeader(),
		"",
		m.renderMetrics(),
		"",
		m.renderRegionalTable(),
	}

	if !m.result.Success {
		sections = append(sections, "", tuistyles.WarnStyle.Render(fmt.Sprintf(
			"⚠ %d trial(s) failed to solve; reported costs may be incomplete.",
			failedTrials(m.result))))
	}

	sections = append(sections, "", lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Render("c curves • d discount rates • r run again • ESC back"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderNoSummaryState() string {
	return tuistyles.BorderStyle.Render(
		"No results to display.\n\n" +
			"Run a sweep first (press 'r').\n\n" +
			"Press ESC to go back.")
}

func (m *SummaryModel) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary).
		Render("Sweep Results")

	subtitle := tuistyles.SubtitleStyle.Render(fmt.Sprintf(
		"Scenario: %s • gas: %s • run %s",
		m.result.ScenarioName, m.result.GasName, m.result.RunID))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

func (m *SummaryModel) renderMetrics() string {
	summary := m.result.Summary

	cards := []*components.MetricCard{
		components.NewMetricCard(
			"Global Undiscounted Cost",
			tuistyles.FormatCostValue(summary.GlobalCost.InexactFloat64()),
		).WithDescription("millions of 1975 US$").WithWidth(32),

		components.NewMetricCard(
			"Global Discounted Cost",
			tuistyles.FormatCostValue(summary.GlobalDiscountedCost.InexactFloat64()),
		).WithDescription("at the configured rate").WithWidth(32),

		components.NewMetricCard(
			"Trials Solved",
			fmt.Sprintf("%d/%d", solvedTrials(m.result), len(m.result.TrialSucceeded)),
		).WithDescription("baseline slot included").WithWidth(32),

		components.NewMetricCard(
			"Regions",
			fmt.Sprintf("%d", len(summary.Regional)),
		).WithDescription("contributing to global totals").WithWidth(32),
	}

	return components.MetricGrid(cards, 2)
}

func (m *SummaryModel) renderRegionalTable() string {
	var content strings.Builder

	content.WriteString(tuistyles.TableHeaderStyle.Render("Regional Policy Costs"))
	content.WriteString("\n\n")
	content.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf(
		"%-16s %16s %16s %8s", "Region", "Undiscounted", "Discounted", "Share")))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", 60))
	content.WriteString("\n")

	summary := m.result.Summary
	rowStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)
	for _, region := range sortedCostRegions(summary.Regional) {
		cost := summary.Regional[region]
		content.WriteString(rowStyle.Render(fmt.Sprintf("%-16s %16s %16s %8s",
			region,
			tuistyles.FormatCostValue(cost.Undiscounted.InexactFloat64()),
			tuistyles.FormatCostValue(cost.Discounted.InexactFloat64()),
			formatShare(cost.Undiscounted, summary.GlobalCost))))
		content.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2)

	return tableStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// formatShare renders a region's share of the global undiscounted
// cost.
func formatShare(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "-"
	}
	share := part.Div(total).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("%.1f%%", share.InexactFloat64())
}

func solvedTrials(result *domain.SweepResult) int {
	solved := 0
	for _, ok := range result.TrialSucceeded {
		if ok {
			solved++
		}
	}
	return solved
}

func failedTrials(result *domain.SweepResult) int {
	return len(result.TrialSucceeded) - solvedTrials(result)
}
