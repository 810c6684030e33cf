package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-folio/internal/core"
)

// Theme contains the visual styles shared by the folio screens.
type Theme struct {
	// Surface colours
	Background core.RGB // behind transparent effect pixels
	Accent     core.RGB

	// Page styles
	SiteTitle    lipgloss.Style
	Tagline      lipgloss.Style
	SectionTitle lipgloss.Style
	ActiveTitle  lipgloss.Style
	Body         lipgloss.Style
	ProjectName  lipgloss.Style
	ProjectMeta  lipgloss.Style
	Quote        lipgloss.Style
	Author       lipgloss.Style

	// Chrome
	StatusBar lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Panel     lipgloss.Style
}

// NewTheme returns the default theme bound to r, so styles render with the
// colour profile of the terminal on the other end (local or SSH).
func NewTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Background: core.RGB{R: 0x1a, G: 0x1b, B: 0x26},
		Accent:     core.RGB{R: 0x7a, G: 0xa2, B: 0xf7},

		SiteTitle:    r.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		Tagline:      r.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		SectionTitle: r.NewStyle().Foreground(lipgloss.Color("111")).Bold(true),
		ActiveTitle:  r.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(true).Padding(0, 1),
		Body:         r.NewStyle().Foreground(lipgloss.Color("252")),
		ProjectName:  r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		ProjectMeta:  r.NewStyle().Foreground(lipgloss.Color("241")),
		Quote:        r.NewStyle().Foreground(lipgloss.Color("255")).Italic(true),
		Author:       r.NewStyle().Foreground(lipgloss.Color("245")),

		StatusBar: r.NewStyle().Foreground(lipgloss.Color("245")),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("241")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("203")),
		Panel:     r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
	}
}
