// Package tuistyles holds the shared color palette and lipgloss styles
// for the terminal UI. It sits below the scene and component packages
// so all of them can share one look without import cycles.
package tuistyles

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#5FAFFF")
	ColorSecondary = lipgloss.Color("#87D787")
	ColorAccent    = lipgloss.Color("#FFAF5F")
	ColorSuccess   = lipgloss.Color("#5FD75F")
	ColorDanger    = lipgloss.Color("#FF5F5F")
	ColorInfo      = lipgloss.Color("#5FD7FF")

	ColorForeground = lipgloss.Color("#D0D0D0")
	ColorMuted      = lipgloss.Color("#808080")
	ColorBorder     = lipgloss.Color("#444444")
)

// chartLineColors are cycled through for multi-series charts.
var chartLineColors = []lipgloss.Color{
	lipgloss.Color("#5FAFFF"),
	lipgloss.Color("#87D787"),
	lipgloss.Color("#FFAF5F"),
	lipgloss.Color("#FF87D7"),
}

// ChartLineColor returns the line color for the series at index i,
// cycling through the palette.
func ChartLineColor(i int) lipgloss.Color {
	return chartLineColors[i%len(chartLineColors)]
}

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(lipgloss.Color("#303030")).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Foreground(ColorDanger).
			Padding(1, 2)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	WarnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	ParameterLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	ParameterValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	SliderTrackStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	SliderThumbStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)
)

// TrendIndicator returns an arrow for the direction a value moved.
func TrendIndicator(up bool) string {
	if up {
		return "↑"
	}
	return "↓"
}

// MetricTrendStyle returns the style for a trend annotation. good
// colors the change as an improvement regardless of direction; for
// policy costs a decrease is the improvement.
func MetricTrendStyle(good bool) lipgloss.Style {
	if good {
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ColorDanger)
}

// FormatCostValue renders a policy cost for display. Costs are carried
// in millions of dollars throughout the engine, so the value is scaled
// up before choosing a suffix.
func FormatCostValue(v float64) string {
	dollars := v * 1e6
	abs := math.Abs(dollars)
	sign := ""
	if dollars < 0 {
		sign = "-"
		abs = -dollars
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%s$%.1fB", sign, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s$%.0fM", sign, abs/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%s$%.0fK", sign, abs/1e3)
	default:
		return fmt.Sprintf("%s$%.0f", sign, abs)
	}
}

// FormatTaxValue renders a per-ton tax for a chart axis.
func FormatTaxValue(v float64) string {
	if math.Abs(v) < 10 {
		return fmt.Sprintf("$%.1f/t", v)
	}
	return fmt.Sprintf("$%.0f/t", v)
}
