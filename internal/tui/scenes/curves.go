package scenes

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/curve"
	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/tui/components"
	"github.com/macgen/macgen/internal/tui/tuistyles"
)

// chartSamples is how many evenly spaced X positions each abatement
// curve is resampled at for plotting.
const chartSamples = 24

const (
	modePeriodCurves = iota
	modeRegionalCurves
)

// CurvesModel is the chart browser scene: per-period marginal
// abatement cost curves and the per-region cost-versus-year curves of
// a completed sweep.
type CurvesModel struct {
	result *domain.SweepResult
	mode   int
	period int
	width  int
	height int
}

// NewCurvesModel creates a new curves scene model.
func NewCurvesModel() *CurvesModel {
	return &CurvesModel{}
}

// SetSweep installs a completed sweep and jumps to its final period,
// where the scaled taxes spread the curve out the most.
func (m *CurvesModel) SetSweep(result *domain.SweepResult) {
	m.result = result
	m.mode = modePeriodCurves
	m.period = 0
	if result != nil && len(result.PeriodCurves) > 0 {
		m.period = len(result.PeriodCurves) - 1
	}
}

// SetSize updates the scene dimensions.
func (m *CurvesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles keyboard input for the curves scene.
func (m *CurvesModel) Update(msg tea.Msg) (*CurvesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.result == nil || !m.result.Ran {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left"))):
		if m.mode == modePeriodCurves {
			m.period = (m.period + len(m.result.PeriodCurves) - 1) % len(m.result.PeriodCurves)
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right"))):
		if m.mode == modePeriodCurves {
			m.period = (m.period + 1) % len(m.result.PeriodCurves)
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("tab"))):
		if m.mode == modePeriodCurves {
			m.mode = modeRegionalCurves
		} else {
			m.mode = modePeriodCurves
		}
	}

	return m, nil
}

// View renders the current chart.
func (m *CurvesModel) View() string {
	if m.result == nil || !m.result.Ran {
		return renderNoCurvesState()
	}

	if m.mode == modeRegionalCurves {
		return m.renderRegionalCurves()
	}
	return m.renderPeriodCurves()
}

func renderNoCurvesState() string {
	return tuistyles.BorderStyle.Render(
		"No curves to display.\n\n" +
			"Run a sweep first (press 'r').\n\n" +
			"Press ESC to go back.")
}

// renderPeriodCurves plots every region's marginal abatement cost
// curve for the selected period on a shared abatement axis.
func (m *CurvesModel) renderPeriodCurves() string {
	curves := m.result.PeriodCurves[m.period]
	year := m.result.ModelTime.Periods[m.period].Year
	regions := curves.Regions()

	minX, maxX := curveSetSpan(curves, regions)
	chart := components.NewASCIIChart(fmt.Sprintf("Marginal Abatement Cost (%d)", year)).
		WithSize(m.chartWidth(), 14).
		WithYFormat(tuistyles.FormatTaxValue).
		WithXAxisLabel("abatement (Mt)").
		WithLabels([]string{
			formatQuantity(minX),
			formatQuantity((minX + maxX) / 2),
			formatQuantity(maxX),
		})

	for i, region := range regions {
		chart.AddSeries(region, sampleCurve(curves[region], minX, maxX), tuistyles.ChartLineColor(i))
	}

	status := tuistyles.SubtitleStyle.Render(fmt.Sprintf(
		"year %d • period %d/%d • ←/→ change period • tab: regional cost curves",
		year, m.period+1, len(m.result.PeriodCurves)))

	return lipgloss.JoinVertical(lipgloss.Left, chart.Render(), "", status)
}

// renderRegionalCurves plots each region's policy cost against the
// period years.
func (m *CurvesModel) renderRegionalCurves() string {
	regions := m.result.RegionalCurves.Regions()
	periods := m.result.ModelTime.Periods

	chart := components.NewASCIIChart("Regional Policy Cost by Year").
		WithSize(m.chartWidth(), 14).
		WithXAxisLabel("year").
		WithLabels([]string{
			strconv.Itoa(periods[0].Year),
			strconv.Itoa(periods[len(periods)/2].Year),
			strconv.Itoa(periods[len(periods)-1].Year),
		})

	for i, region := range regions {
		points := make([]float64, len(periods))
		for p, period := range periods {
			year := decimal.NewFromInt(int64(period.Year))
			points[p] = m.result.RegionalCurves[region].Y(year).InexactFloat64()
		}
		chart.AddSeries(region, points, tuistyles.ChartLineColor(i))
	}

	status := tuistyles.SubtitleStyle.Render("tab: period abatement curves")

	return lipgloss.JoinVertical(lipgloss.Left, chart.Render(), "", status)
}

func (m *CurvesModel) chartWidth() int {
	w := m.width - 12
	if w < 48 {
		w = 48
	}
	if w > 72 {
		w = 72
	}
	return w
}

// curveSetSpan returns the combined X range of the named curves.
func curveSetSpan(curves domain.RegionCurveMap, regions []string) (float64, float64) {
	minX, maxX := 0.0, 0.0
	for i, region := range regions {
		lo := curves[region].MinX().InexactFloat64()
		hi := curves[region].MaxX().InexactFloat64()
		if i == 0 || lo < minX {
			minX = lo
		}
		if i == 0 || hi > maxX {
			maxX = hi
		}
	}
	return minX, maxX
}

// sampleCurve evaluates a curve at evenly spaced positions across
// [minX, maxX]; the curve clamps outside its own domain.
func sampleCurve(c *curve.Curve, minX, maxX float64) []float64 {
	points := make([]float64, chartSamples)
	span := maxX - minX
	for i := range points {
		x := minX
		if chartSamples > 1 {
			x = minX + span*float64(i)/float64(chartSamples-1)
		}
		points[i] = c.Y(decimal.NewFromFloat(x)).InexactFloat64()
	}
	return points
}

func formatQuantity(v float64) string {
	if v != 0 && v > -10 && v < 10 {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.0f", v)
}
