package scenes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/tui/components"
	"github.com/macgen/macgen/internal/tui/tuimsg"
	"github.com/macgen/macgen/internal/tui/tuistyles"
)

// RatesModel is the discount rate explorer: sliders for the discount
// rate and start year, with the completed sweep re-aggregated at the
// chosen values. Adjustments emit DiscountChangedMsg; the root model
// re-discounts and feeds the fresh summary back via SetSummary.
type RatesModel struct {
	haveSweep bool
	baseline  domain.PolicySummary
	summary   domain.PolicySummary

	rateSlider *components.ParameterSlider
	yearSlider *components.ParameterSlider
	focused    int

	width  int
	height int
}

// NewRatesModel creates a new rates scene model.
func NewRatesModel() *RatesModel {
	return &RatesModel{}
}

// SetSweep installs a completed sweep along with the configured
// discount rate and start year the sliders should start from.
func (m *RatesModel) SetSweep(result *domain.SweepResult, rate decimal.Decimal, startYear int) {
	m.haveSweep = result != nil && result.Ran
	if !m.haveSweep {
		return
	}

	m.baseline = result.Summary
	m.summary = result.Summary

	ratePct := rate.Mul(decimal.NewFromInt(100)).InexactFloat64()
	m.rateSlider = components.NewParameterSlider("Discount rate", ratePct, 0, 15, 0.5).
		WithUnit("%").
		WithFormat("%.1f").
		WithWidth(40).
		WithDescription("Annual rate applied to future policy costs")

	m.yearSlider = components.NewParameterSlider("Discount start year", float64(startYear),
		1975, float64(result.ModelTime.EndYear), 5).
		WithFormat("%.0f").
		WithWidth(40).
		WithDescription("Year costs are discounted back to")

	m.focused = 0
	m.rateSlider.SetFocused(true)
	m.yearSlider.SetFocused(false)
}

// SetSummary installs the re-discounted summary for display.
func (m *RatesModel) SetSummary(summary domain.PolicySummary) {
	m.summary = summary
}

// Rate returns the slider's discount rate as a fraction.
func (m *RatesModel) Rate() decimal.Decimal {
	return decimal.NewFromFloat(m.rateSlider.Value / 100)
}

// StartYear returns the slider's discount start year.
func (m *RatesModel) StartYear() int {
	return int(m.yearSlider.Value)
}

// SetSize updates the scene dimensions.
func (m *RatesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles keyboard input for the rates scene.
func (m *RatesModel) Update(msg tea.Msg) (*RatesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.haveSweep {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "down"))):
		m.toggleFocus()
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left"))):
		m.focusedSlider().Decrement()
		return m, m.discountChangedCmd()

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right"))):
		m.focusedSlider().Increment()
		return m, m.discountChangedCmd()
	}

	return m, nil
}

func (m *RatesModel) focusedSlider() *components.ParameterSlider {
	if m.focused == 1 {
		return m.yearSlider
	}
	return m.rateSlider
}

func (m *RatesModel) toggleFocus() {
	m.focusedSlider().SetFocused(false)
	m.focused = 1 - m.focused
	m.focusedSlider().SetFocused(true)
}

func (m *RatesModel) discountChangedCmd() tea.Cmd {
	rate := m.Rate()
	startYear := m.StartYear()
	return func() tea.Msg {
		return tuimsg.DiscountChangedMsg{Rate: rate, StartYear: startYear}
	}
}

// View renders the rates scene.
func (m *RatesModel) View() string {
	if !m.haveSweep {
		return renderNoRatesState()
	}

	header := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Discount Rate Explorer"),
		tuistyles.SubtitleStyle.Render("Re-discount the completed sweep without re-solving"),
	)

	help := lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Render("↑/↓ switch slider • ←/→ adjust • ESC back")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		m.renderSliders(),
		"",
		m.renderGlobalCards(),
		"",
		m.renderRegionalTable(),
		"",
		help,
	)
}

func renderNoRatesState() string {
	return tuistyles.BorderStyle.Render(
		"No sweep results to re-discount.\n\n" +
			"Run a sweep first (press 'r').\n\n" +
			"Press ESC to go back.")
}

func (m *RatesModel) renderSliders() string {
	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 4).
		Width(64)

	content := m.rateSlider.Render() + "\n\n" + m.yearSlider.Render()
	return containerStyle.Render(content)
}

func (m *RatesModel) renderGlobalCards() string {
	undiscounted := components.NewMetricCard(
		"Global Undiscounted Cost",
		tuistyles.FormatCostValue(m.summary.GlobalCost.InexactFloat64()),
	).WithDescription("rate-independent").WithWidth(32)

	discounted := components.NewMetricCard(
		"Global Discounted Cost",
		tuistyles.FormatCostValue(m.summary.GlobalDiscountedCost.InexactFloat64()),
	).WithWidth(32)

	delta := m.summary.GlobalDiscountedCost.Sub(m.baseline.GlobalDiscountedCost)
	if !delta.IsZero() {
		discounted.WithTrend(delta.IsPositive(), delta.IsNegative(),
			formatCostDelta(delta)+" vs configured")
	}

	return components.MetricGrid([]*components.MetricCard{undiscounted, discounted}, 2)
}

func (m *RatesModel) renderRegionalTable() string {
	var content strings.Builder

	content.WriteString(tuistyles.TableHeaderStyle.Render(
		fmt.Sprintf("%-16s %14s %18s", "Region", "Discounted", "vs configured")))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", 50))
	content.WriteString("\n")

	rowStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)
	for _, region := range sortedCostRegions(m.summary.Regional) {
		cost := m.summary.Regional[region]
		delta := cost.Discounted.Sub(m.baseline.Regional[region].Discounted)

		deltaText := "-"
		deltaStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
		if !delta.IsZero() {
			deltaText = formatCostDelta(delta)
			deltaStyle = tuistyles.MetricTrendStyle(delta.IsNegative())
		}

		content.WriteString(rowStyle.Render(fmt.Sprintf("%-16s %14s ",
			region, tuistyles.FormatCostValue(cost.Discounted.InexactFloat64()))))
		content.WriteString(deltaStyle.Render(fmt.Sprintf("%18s", deltaText)))
		content.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2)

	return tableStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// formatCostDelta renders a signed cost change with an explicit plus
// on increases.
func formatCostDelta(delta decimal.Decimal) string {
	text := tuistyles.FormatCostValue(delta.InexactFloat64())
	if delta.IsPositive() {
		text = "+" + text
	}
	return text
}

// sortedCostRegions returns the region names of a cost map in sorted
// order.
func sortedCostRegions(costs map[string]domain.RegionCost) []string {
	regions := make([]string, 0, len(costs))
	for region := range costs {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
