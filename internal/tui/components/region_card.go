package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/macgen/macgen/internal/tui/tuistyles"
)

// RegionCard displays a compact overview of one configured region.
type RegionCard struct {
	Name       string
	Driver     string // e.g. "input-driver: energy"
	HasPolicy  bool
	Highlights []string
	Width      int
}

// NewRegionCard creates a region card.
func NewRegionCard(name string) *RegionCard {
	return &RegionCard{
		Name:  name,
		Width: 50,
	}
}

// WithDriver sets the emissions driver description.
func (r *RegionCard) WithDriver(driver string) *RegionCard {
	r.Driver = driver
	return r
}

// WithPolicy marks whether the region carries a baseline tax schedule.
func (r *RegionCard) WithPolicy(hasPolicy bool) *RegionCard {
	r.HasPolicy = hasPolicy
	return r
}

// AddHighlight adds a key parameter line.
func (r *RegionCard) AddHighlight(highlight string) *RegionCard {
	r.Highlights = append(r.Highlights, highlight)
	return r
}

// WithWidth sets the card width.
func (r *RegionCard) WithWidth(width int) *RegionCard {
	r.Width = width
	return r
}

func (r *RegionCard) policyTag() string {
	if r.HasPolicy {
		return lipgloss.NewStyle().Foreground(tuistyles.ColorSecondary).Render("⚡ policy")
	}
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("no policy")
}

// Render returns the bordered card.
func (r *RegionCard) Render() string {
	var content strings.Builder

	nameStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	content.WriteString(nameStyle.Render(r.Name))
	content.WriteString("  ")
	content.WriteString(r.policyTag())
	content.WriteString("\n")

	if r.Driver != "" {
		driverStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		content.WriteString(driverStyle.Render("→ " + r.Driver))
		content.WriteString("\n")
	}

	if len(r.Highlights) > 0 {
		content.WriteString("\n")
		highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
		for _, h := range r.Highlights {
			content.WriteString(highlightStyle.Render("• " + h))
			content.WriteString("\n")
		}
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(r.Width)

	return cardStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a single-line form for dense listings.
func (r *RegionCard) RenderCompact() string {
	parts := []string{
		lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(r.Name),
	}
	if r.Driver != "" {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("("+r.Driver+")"))
	}
	parts = append(parts, r.policyTag())
	if len(r.Highlights) > 0 {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("• "+r.Highlights[0]))
	}
	return strings.Join(parts, " ")
}

// RegionList renders compact cards as an indented list.
func RegionList(cards []*RegionCard) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No regions configured")
	}

	lines := make([]string, len(cards))
	for i, card := range cards {
		lines[i] = "  " + card.RenderCompact()
	}
	return strings.Join(lines, "\n")
}
