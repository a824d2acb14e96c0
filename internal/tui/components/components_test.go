package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macgen/macgen/internal/tui/tuistyles"
)

func TestASCIIChartBounds(t *testing.T) {
	chart := NewASCIIChart("test").
		AddSeries("a", []float64{10, 20, 30}, tuistyles.ChartLineColor(0))

	minVal, maxVal := chart.bounds()
	assert.InDelta(t, 8.0, minVal, 1e-9)
	assert.InDelta(t, 32.0, maxVal, 1e-9)
}

func TestASCIIChartBoundsFlatSeries(t *testing.T) {
	// A flat series has zero spread; the bounds must still open up so
	// the grid projection never divides by zero.
	chart := NewASCIIChart("flat").
		AddSeries("a", []float64{5, 5, 5}, tuistyles.ChartLineColor(0))

	minVal, maxVal := chart.bounds()
	assert.Less(t, minVal, 5.0)
	assert.Greater(t, maxVal, 5.0)

	out := chart.Render()
	assert.Contains(t, out, "●")
}

func TestASCIIChartBoundsNoData(t *testing.T) {
	chart := NewASCIIChart("empty")
	chart.Series = []*DataSeries{{Name: "a"}}

	minVal, maxVal := chart.bounds()
	assert.Equal(t, 0.0, minVal)
	assert.Equal(t, 1.0, maxVal)
}

func TestASCIIChartRender(t *testing.T) {
	out := NewASCIIChart("Regional Policy Cost by Year").
		AddSeries("USA", []float64{0, 5000, 11000}, tuistyles.ChartLineColor(0)).
		AddSeries("EU", []float64{0, 2500, 5500}, tuistyles.ChartLineColor(1)).
		WithLabels([]string{"2020", "2025", "2030"}).
		WithXAxisLabel("year").
		Render()

	assert.Contains(t, out, "Regional Policy Cost by Year")
	assert.Contains(t, out, "Legend:")
	assert.Contains(t, out, "USA")
	assert.Contains(t, out, "EU")
	assert.Contains(t, out, "│")
	assert.Contains(t, out, "└─")
	assert.Contains(t, out, "2020")
	assert.Contains(t, out, "2030")
	assert.Contains(t, out, "year")
	// Default Y formatter treats values as millions of dollars.
	assert.Contains(t, out, "B")
}

func TestASCIIChartYFormat(t *testing.T) {
	out := NewASCIIChart("Marginal Abatement Cost").
		AddSeries("USA", []float64{0, 50, 100}, tuistyles.ChartLineColor(0)).
		WithYFormat(tuistyles.FormatTaxValue).
		Render()

	assert.Contains(t, out, "/t")
	// Single series charts carry no legend.
	assert.NotContains(t, out, "Legend:")
}

func TestASCIIChartNoSeries(t *testing.T) {
	assert.Contains(t, NewASCIIChart("x").Render(), "No data to display")
}

func TestProgressBarPercentage(t *testing.T) {
	assert.Equal(t, 0.0, NewProgressBar(3, 0).Percentage())
	assert.Equal(t, 50.0, NewProgressBar(2, 4).Percentage())
	assert.Equal(t, 100.0, NewProgressBar(4, 4).Percentage())
}

func TestProgressBarRender(t *testing.T) {
	out := NewProgressBar(2, 4).WithLabel("Trials").WithWidth(10).Render()

	assert.Contains(t, out, "Trials")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "░")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "2/4")
}

func TestProgressBarOverflowClamps(t *testing.T) {
	out := NewProgressBar(9, 4).WithWidth(10).Render()
	assert.Contains(t, out, strings.Repeat("█", 10))
	assert.NotContains(t, out, "░")
}

func TestItemStatusIcons(t *testing.T) {
	assert.Equal(t, "○", StatusPending.icon())
	assert.Equal(t, "◐", StatusRunning.icon())
	assert.Equal(t, "●", StatusComplete.icon())
	assert.Equal(t, "✗", StatusError.icon())
}

func TestProgressPanelRender(t *testing.T) {
	out := NewProgressPanel("Abatement Cost Sweep").
		AddItem(ProgressItem{Label: "Solve scaled tax trials", Status: StatusRunning,
			Progress: NewProgressBar(1, 4).WithWidth(20), Message: "1 trial(s) failed to solve"}).
		AddItem(ProgressItem{Label: "Fit period abatement curves", Status: StatusPending}).
		Render()

	assert.Contains(t, out, "Abatement Cost Sweep")
	assert.Contains(t, out, "◐ Solve scaled tax trials")
	assert.Contains(t, out, "○ Fit period abatement curves")
	assert.Contains(t, out, "1/4")
	assert.Contains(t, out, "1 trial(s) failed to solve")
}

func TestSpinnerCycles(t *testing.T) {
	s := NewSpinner().WithMessage("solving")
	assert.Contains(t, s.Render(), "⠋")
	assert.Contains(t, s.Render(), "solving")

	for i := 0; i < len(spinnerFrames); i++ {
		s.Next()
	}
	// A full cycle returns to the first frame.
	assert.Contains(t, s.Render(), "⠋")
}

func TestParameterSliderClamps(t *testing.T) {
	s := NewParameterSlider("Discount rate", 14.8, 0, 15, 0.5)

	s.Increment()
	assert.Equal(t, 15.0, s.Value)
	s.Increment()
	assert.Equal(t, 15.0, s.Value)

	s.SetValue(-3)
	assert.Equal(t, 0.0, s.Value)

	s.SetValue(7.5)
	assert.Equal(t, 0.5, s.Percentage())
	s.Decrement()
	assert.Equal(t, 7.0, s.Value)
}

func TestParameterSliderRender(t *testing.T) {
	out := NewParameterSlider("Discount rate", 5.0, 0, 15, 0.5).
		WithUnit("%").
		WithFormat("%.1f").
		WithDescription("Annual rate applied to future policy costs").
		SetFocused(true).
		Render()

	assert.Contains(t, out, "Discount rate")
	assert.Contains(t, out, "5.0%")
	assert.Contains(t, out, "0.0%")
	assert.Contains(t, out, "15.0%")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "Annual rate applied to future policy costs")
	assert.Contains(t, out, "← → to adjust")
}

func TestMetricCardRender(t *testing.T) {
	out := NewMetricCard("Global Discounted Cost", "$45.0B").
		WithTrend(false, true, "-$1.2B vs configured").
		WithDescription("at the configured rate").
		Render()

	assert.Contains(t, out, "Global Discounted Cost")
	assert.Contains(t, out, "$45.0B")
	assert.Contains(t, out, "↓ -$1.2B vs configured")
	assert.Contains(t, out, "at the configured rate")

	compact := NewMetricCard("Regions", "2").RenderCompact()
	assert.Contains(t, compact, "Regions:")
	assert.Contains(t, compact, "2")
}

func TestMetricGrid(t *testing.T) {
	cards := []*MetricCard{
		NewMetricCard("A", "1"),
		NewMetricCard("B", "2"),
		NewMetricCard("C", "3"),
	}

	out := MetricGrid(cards, 2)
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "B")
	assert.Contains(t, out, "C")

	assert.Equal(t, "", MetricGrid(nil, 2))
}

func TestRegionCard(t *testing.T) {
	out := NewRegionCard("USA").
		WithDriver("input-driver: energy").
		WithPolicy(true).
		AddHighlight("tax up to $150/t").
		Render()

	assert.Contains(t, out, "USA")
	assert.Contains(t, out, "⚡ policy")
	assert.Contains(t, out, "input-driver: energy")
	assert.Contains(t, out, "• tax up to $150/t")

	compact := NewRegionCard("EU").WithDriver("output-driver").RenderCompact()
	assert.Contains(t, compact, "EU")
	assert.Contains(t, compact, "no policy")
}

func TestRegionList(t *testing.T) {
	out := RegionList([]*RegionCard{
		NewRegionCard("USA").WithPolicy(true),
		NewRegionCard("EU"),
	})
	assert.Contains(t, out, "USA")
	assert.Contains(t, out, "EU")

	assert.Contains(t, RegionList(nil), "No regions configured")
}
