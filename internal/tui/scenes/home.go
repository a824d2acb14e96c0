package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/tui/components"
	"github.com/macgen/macgen/internal/tui/tuistyles"
)

// HomeModel is the dashboard scene: scenario overview plus the sweep
// settings that the next run will use.
type HomeModel struct {
	config *config.Config
	width  int
	height int
}

// NewHomeModel creates a new home scene model.
func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

// SetConfig updates the loaded configuration.
func (m *HomeModel) SetConfig(cfg *config.Config) {
	m.config = cfg
}

// SetSize updates the scene dimensions.
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home scene. Navigation is handled by
// the parent, so the scene itself is passive.
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	return m, nil
}

// View renders the home dashboard.
func (m *HomeModel) View() string {
	if m.config == nil {
		return m.renderLoading()
	}

	var content strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary).
		MarginBottom(1)
	content.WriteString(titleStyle.Render("macgen - Abatement Cost Curve Calculator"))
	content.WriteString("\n\n")

	content.WriteString(m.renderScenarioOverview())
	content.WriteString("\n\n")

	content.WriteString(m.renderSweepSettings())
	content.WriteString("\n\n")

	content.WriteString(m.renderQuickActions())
	content.WriteString("\n\n")

	content.WriteString(m.renderTips())

	return tuistyles.BorderStyle.Render(content.String())
}

func (m *HomeModel) renderLoading() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render("macgen - Abatement Cost Curve Calculator"))
	content.WriteString("\n\n")

	subtleStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString(subtleStyle.Render("Loading scenario configuration..."))

	return tuistyles.BorderStyle.Render(content.String())
}

// renderScenarioOverview shows the period structure and regions.
func (m *HomeModel) renderScenarioOverview() string {
	var content strings.Builder

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorSecondary).
		MarginBottom(1)
	content.WriteString(sectionStyle.Render("📋 Scenario Overview"))
	content.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	valueStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)

	sc := &m.config.Scenario

	content.WriteString(labelStyle.Render("  Scenario: "))
	content.WriteString(valueStyle.Render(sc.Name))
	content.WriteString("\n")

	content.WriteString(labelStyle.Render("  Periods: "))
	content.WriteString(valueStyle.Render(formatPeriodSpan(sc)))
	content.WriteString("\n")

	content.WriteString(labelStyle.Render("  Regions: "))
	content.WriteString(valueStyle.Render(fmt.Sprintf("%d configured", len(sc.Regions))))
	content.WriteString("\n")

	content.WriteString(components.RegionList(regionCards(sc.Regions)))
	content.WriteString("\n")

	return content.String()
}

// renderSweepSettings shows the knobs the cost engine will run with.
func (m *HomeModel) renderSweepSettings() string {
	var content strings.Builder

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorSecondary).
		MarginBottom(1)
	content.WriteString(sectionStyle.Render("📊 Sweep Settings"))
	content.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	valueStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)

	opts := m.config.Options
	numPoints := opts.NumPoints()

	rows := []struct {
		label string
		value string
	}{
		{"Abated gas", opts.AbatedGas()},
		{"Cost curve points", fmt.Sprintf("%d (%d scaled trials + baseline)", numPoints, numPoints)},
		{"Discount rate", fmt.Sprintf("%.1f%%/yr from %d",
			opts.DiscountRate().Mul(decimal.NewFromInt(100)).InexactFloat64(),
			opts.DiscountStartYear())},
		{"Market probe region", opts.MarketCheckRegion()},
	}
	for _, row := range rows {
		content.WriteString(labelStyle.Render(fmt.Sprintf("  %-20s", row.label+":")))
		content.WriteString(valueStyle.Render(row.value))
		content.WriteString("\n")
	}

	return content.String()
}

func (m *HomeModel) renderQuickActions() string {
	var content strings.Builder

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorSecondary).
		MarginBottom(1)
	content.WriteString(sectionStyle.Render("⚡ Quick Actions"))
	content.WriteString("\n")

	keyStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	descStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)

	actions := []struct {
		key  string
		desc string
	}{
		{"r", "Run the abatement cost sweep"},
		{"c", "Browse abatement and cost curves"},
		{"d", "Explore alternative discount rates"},
		{"s", "View the cost summary"},
		{"?", "Show help"},
	}
	for _, action := range actions {
		content.WriteString("  ")
		content.WriteString(keyStyle.Render(action.key))
		content.WriteString(descStyle.Render("  " + action.desc))
		content.WriteString("\n")
	}

	return content.String()
}

func (m *HomeModel) renderTips() string {
	var content strings.Builder

	subtleStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true)
	content.WriteString(subtleStyle.Render("💡 Tip: Press 'r' to run the sweep and build the cost curves"))
	content.WriteString("\n")
	content.WriteString(subtleStyle.Render("    Press '?' at any time for help"))

	return content.String()
}

// regionCards builds compact cards for the region listing.
func regionCards(regions []config.RegionConfig) []*components.RegionCard {
	cards := make([]*components.RegionCard, len(regions))
	for i, region := range regions {
		card := components.NewRegionCard(region.Name).
			WithDriver(driverSummary(region)).
			WithPolicy(len(region.BaselineTax) > 0)
		if peak := peakTax(region.BaselineTax); peak.IsPositive() {
			card.AddHighlight("tax up to " + tuistyles.FormatTaxValue(peak.InexactFloat64()))
		}
		cards[i] = card
	}
	return cards
}

func driverSummary(region config.RegionConfig) string {
	if region.Driver.Input != "" {
		return region.Driver.Kind + ": " + region.Driver.Input
	}
	return region.Driver.Kind
}

func peakTax(taxes []decimal.Decimal) decimal.Decimal {
	peak := decimal.Zero
	for _, tax := range taxes {
		if tax.GreaterThan(peak) {
			peak = tax
		}
	}
	return peak
}

func formatPeriodSpan(sc *config.ScenarioConfig) string {
	if len(sc.Periods) == 0 {
		return "none configured"
	}
	first := sc.Periods[0].Year
	last := sc.Periods[len(sc.Periods)-1].Year
	return fmt.Sprintf("%d (%d-%d, horizon %d)", len(sc.Periods), first, last, sc.EndYear)
}
