package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/macgen/macgen/internal/tui/tuistyles"
)

// seriesChars mark the data points of successive series.
var seriesChars = []rune{'●', '■', '▲', '♦'}

// yAxisWidth is the column budget for Y-axis tick labels.
const yAxisWidth = 10

// DataSeries is a single line in a chart. Points are positional: the
// i-th value of every series shares the same X slot.
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart draws one or more data series as a character-grid line
// chart with a labelled Y axis.
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // X-axis labels: first, middle, last are shown
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
	YFormat    func(float64) string
}

// NewASCIIChart creates a chart with default dimensions and the cost
// value formatter on the Y axis.
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      64,
		Height:     14,
		ShowLegend: true,
		YFormat:    tuistyles.FormatCostValue,
	}
}

// AddSeries appends a data series.
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// WithLabels sets the X-axis labels.
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions.
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// WithXAxisLabel sets the caption under the X axis.
func (c *ASCIIChart) WithXAxisLabel(label string) *ASCIIChart {
	c.XAxisLabel = label
	return c
}

// WithYFormat sets the formatter for Y-axis tick labels.
func (c *ASCIIChart) WithYFormat(format func(float64) string) *ASCIIChart {
	c.YFormat = format
	return c
}

// Render returns the styled chart.
func (c *ASCIIChart) Render() string {
	if len(c.Series) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder

	if c.Title != "" {
		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(tuistyles.ColorPrimary)
		content.WriteString(titleStyle.Render(c.Title))
		content.WriteString("\n\n")
	}

	minVal, maxVal := c.bounds()
	content.WriteString(c.renderGrid(minVal, maxVal))

	if c.XAxisLabel != "" {
		labelStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		pad := yAxisWidth + 3 + (c.chartWidth()-len(c.XAxisLabel))/2
		if pad < 0 {
			pad = 0
		}
		content.WriteString(strings.Repeat(" ", pad))
		content.WriteString(labelStyle.Render(c.XAxisLabel))
		content.WriteString("\n")
	}

	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n")
		content.WriteString(c.renderLegend())
	}

	return content.String()
}

func (c *ASCIIChart) chartWidth() int {
	w := c.Width - yAxisWidth - 3
	if w < 8 {
		w = 8
	}
	return w
}

// bounds finds the value range across all series, padded by 10% so
// lines stay off the frame. A flat range is widened so every curve
// still maps onto the grid.
func (c *ASCIIChart) bounds() (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, series := range c.Series {
		for _, p := range series.Points {
			minVal = math.Min(minVal, p)
			maxVal = math.Max(maxVal, p)
		}
	}
	if math.IsInf(minVal, 1) {
		return 0, 1
	}

	pad := (maxVal - minVal) * 0.1
	if pad == 0 {
		pad = math.Max(1, math.Abs(maxVal)*0.1)
	}
	return minVal - pad, maxVal + pad
}

// renderGrid rasterizes the series onto a rune grid and frames it with
// the Y axis and baseline.
func (c *ASCIIChart) renderGrid(minVal, maxVal float64) string {
	chartWidth := c.chartWidth()

	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = make([]rune, chartWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for si, series := range c.Series {
		if len(series.Points) == 0 {
			continue
		}
		char := seriesChars[si%len(seriesChars)]

		// Project every point into grid coordinates first, then draw
		// the polyline and stamp the markers on top.
		cols := make([]int, len(series.Points))
		rows := make([]int, len(series.Points))
		for i, p := range series.Points {
			x := 0
			if len(series.Points) > 1 {
				x = int(float64(i) / float64(len(series.Points)-1) * float64(chartWidth-1))
			}
			y := c.Height - 1 - int((p-minVal)/(maxVal-minVal)*float64(c.Height-1))
			cols[i], rows[i] = x, y
		}
		for i := 1; i < len(cols); i++ {
			drawLine(grid, cols[i-1], rows[i-1], cols[i], rows[i], char)
		}
		for i := range cols {
			if cols[i] >= 0 && cols[i] < chartWidth && rows[i] >= 0 && rows[i] < c.Height {
				grid[rows[i]][cols[i]] = char
			}
		}
	}

	var output strings.Builder
	yAxisStyle := lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Width(yAxisWidth).
		Align(lipgloss.Right)

	for i, row := range grid {
		yValue := maxVal - float64(i)/float64(c.Height-1)*(maxVal-minVal)
		output.WriteString(yAxisStyle.Render(c.YFormat(yValue)))
		output.WriteString(" │ ")
		output.WriteString(string(row))
		output.WriteString("\n")
	}

	output.WriteString(strings.Repeat(" ", yAxisWidth))
	output.WriteString(" └─")
	output.WriteString(strings.Repeat("─", chartWidth))
	output.WriteString("\n")

	if len(c.Labels) > 0 {
		output.WriteString(c.renderXAxisLabels(chartWidth))
	}

	return output.String()
}

// renderXAxisLabels places the first label left-aligned, the middle
// label centered, and the last label right-aligned under the axis.
func (c *ASCIIChart) renderXAxisLabels(chartWidth int) string {
	line := make([]rune, chartWidth)
	for i := range line {
		line[i] = ' '
	}

	place := func(label string, at int) {
		start := at - len(label)/2
		if start < 0 {
			start = 0
		}
		if start+len(label) > chartWidth {
			start = chartWidth - len(label)
		}
		for i, r := range label {
			if start+i >= 0 && start+i < chartWidth {
				line[start+i] = r
			}
		}
	}

	place(c.Labels[0], 0)
	if len(c.Labels) > 2 {
		place(c.Labels[len(c.Labels)/2], chartWidth/2)
	}
	if len(c.Labels) > 1 {
		place(c.Labels[len(c.Labels)-1], chartWidth-1)
	}

	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	return strings.Repeat(" ", yAxisWidth+3) + labelStyle.Render(string(line)) + "\n"
}

// drawLine connects two grid cells with Bresenham's algorithm, leaving
// already-drawn cells alone so crossing series stay readable.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[0]) && grid[y][x] == ' ' {
			grid[y][x] = char
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func (c *ASCIIChart) renderLegend() string {
	var items []string
	for i, series := range c.Series {
		symbol := lipgloss.NewStyle().
			Foreground(series.Color).
			Render(string(seriesChars[i%len(seriesChars)]))
		name := lipgloss.NewStyle().
			Foreground(tuistyles.ColorForeground).
			Render(series.Name)
		items = append(items, fmt.Sprintf("%s %s", symbol, name))
	}

	legendStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	return legendStyle.Render("Legend: " + strings.Join(items, " • "))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
