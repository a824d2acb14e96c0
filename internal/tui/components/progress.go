package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/macgen/macgen/internal/tui/tuistyles"
)

// ProgressBar displays a bounded counter as a filled bar.
type ProgressBar struct {
	Current     int
	Total       int
	Width       int
	Label       string
	ShowPercent bool
	ShowCount   bool
}

// NewProgressBar creates a progress bar at current out of total.
func NewProgressBar(current, total int) *ProgressBar {
	return &ProgressBar{
		Current:     current,
		Total:       total,
		Width:       40,
		ShowPercent: true,
		ShowCount:   true,
	}
}

// WithLabel sets a label rendered above the bar.
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width.
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// SetCurrent updates the counter.
func (p *ProgressBar) SetCurrent(current int) {
	p.Current = current
}

// Percentage returns the completion percentage.
func (p *ProgressBar) Percentage() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

// Render returns the styled progress bar.
func (p *ProgressBar) Render() string {
	var content strings.Builder

	if p.Label != "" {
		labelStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(tuistyles.ColorForeground)
		content.WriteString(labelStyle.Render(p.Label))
		content.WriteString("\n")
	}

	percentage := p.Percentage()
	filled := int(float64(p.Width) * percentage / 100)
	if filled > p.Width {
		filled = p.Width
	}
	if filled < 0 {
		filled = 0
	}

	content.WriteString("[")
	if filled > 0 {
		fillStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
		content.WriteString(fillStyle.Render(strings.Repeat("█", filled)))
	}
	if p.Width-filled > 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)
		content.WriteString(emptyStyle.Render(strings.Repeat("░", p.Width-filled)))
	}
	content.WriteString("]")

	var stats []string
	if p.ShowPercent {
		percentStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(tuistyles.ColorPrimary)
		stats = append(stats, percentStyle.Render(fmt.Sprintf("%.1f%%", percentage)))
	}
	if p.ShowCount {
		countStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
		stats = append(stats, countStyle.Render(fmt.Sprintf("%d/%d", p.Current, p.Total)))
	}
	if len(stats) > 0 {
		content.WriteString(" ")
		content.WriteString(strings.Join(stats, " • "))
	}

	return content.String()
}

// ItemStatus is the lifecycle state of one progress panel item.
type ItemStatus string

const (
	StatusPending  ItemStatus = "pending"
	StatusRunning  ItemStatus = "running"
	StatusComplete ItemStatus = "complete"
	StatusError    ItemStatus = "error"
)

// ProgressItem is one tracked step in a progress panel.
type ProgressItem struct {
	Label    string
	Status   ItemStatus
	Progress *ProgressBar
	Message  string
}

// ProgressPanel displays a bordered list of steps with status icons.
type ProgressPanel struct {
	Title string
	Items []ProgressItem
	Width int
}

// NewProgressPanel creates an empty panel.
func NewProgressPanel(title string) *ProgressPanel {
	return &ProgressPanel{
		Title: title,
		Width: 60,
	}
}

// AddItem appends a step to the panel.
func (p *ProgressPanel) AddItem(item ProgressItem) *ProgressPanel {
	p.Items = append(p.Items, item)
	return p
}

// WithWidth sets the panel width.
func (p *ProgressPanel) WithWidth(width int) *ProgressPanel {
	p.Width = width
	return p
}

// Render returns the styled panel.
func (p *ProgressPanel) Render() string {
	var content strings.Builder

	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(tuistyles.ColorPrimary)
		content.WriteString(titleStyle.Render(p.Title))
		content.WriteString("\n\n")
	}

	for _, item := range p.Items {
		content.WriteString(renderProgressItem(item))
		content.WriteString("\n")
	}

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(p.Width)

	return panelStyle.Render(strings.TrimRight(content.String(), "\n"))
}

func renderProgressItem(item ProgressItem) string {
	icon := item.Status.icon()
	line := item.Status.style().Render(icon) + " " +
		lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Render(item.Label)

	if item.Progress != nil {
		line += "\n  " + item.Progress.Render()
	}
	if item.Message != "" {
		msgStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		line += "\n  " + msgStyle.Render(item.Message)
	}
	return line
}

func (s ItemStatus) icon() string {
	switch s {
	case StatusRunning:
		return "◐"
	case StatusComplete:
		return "●"
	case StatusError:
		return "✗"
	default:
		return "○"
	}
}

func (s ItemStatus) style() lipgloss.Style {
	switch s {
	case StatusRunning:
		return lipgloss.NewStyle().Foreground(tuistyles.ColorInfo)
	case StatusComplete:
		return lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	case StatusError:
		return lipgloss.NewStyle().Foreground(tuistyles.ColorDanger)
	default:
		return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	}
}

// spinnerFrames is the braille animation cycle.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a frame-counted loading indicator advanced by tick
// messages.
type Spinner struct {
	Frame   int
	Message string
}

// NewSpinner creates a spinner at frame zero.
func NewSpinner() *Spinner {
	return &Spinner{}
}

// WithMessage sets the text after the spinner glyph.
func (s *Spinner) WithMessage(message string) *Spinner {
	s.Message = message
	return s
}

// Next advances to the next animation frame.
func (s *Spinner) Next() {
	s.Frame++
}

// Render returns the current frame with its message.
func (s *Spinner) Render() string {
	spinnerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	out := spinnerStyle.Render(spinnerFrames[s.Frame%len(spinnerFrames)])

	if s.Message != "" {
		messageStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)
		out += " " + messageStyle.Render(s.Message)
	}
	return out
}
