package viewer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sitegraph/pkg/model"
)

// Theme holds the viewer's styles. Built once at startup so View never
// allocates styles per frame.
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Nav     lipgloss.AdaptiveColor
	Notes   lipgloss.AdaptiveColor
	Work    lipgloss.AdaptiveColor
	Reading lipgloss.AdaptiveColor
	Current lipgloss.AdaptiveColor
	Recent  lipgloss.AdaptiveColor

	Header       lipgloss.Style
	StatusBar    lipgloss.Style
	Selected     lipgloss.Style
	Muted        lipgloss.Style
	EdgeDot      lipgloss.Style
	FilterOn     lipgloss.Style
	FilterOff    lipgloss.Style
	PreviewBox   lipgloss.Style
	HelpOverlay  lipgloss.Style
	SearchPrompt lipgloss.Style
}

// DefaultTheme is tuned for dark and light terminals via adaptive colors.
func DefaultTheme() Theme {
	t := Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#e0e0f0"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
		Highlight: lipgloss.AdaptiveColor{Light: "#0550ae", Dark: "#58a6ff"},

		Nav:     lipgloss.AdaptiveColor{Light: "#57606a", Dark: "#8b949e"},
		Notes:   lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"},
		Work:    lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"},
		Reading: lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#539bf5"},
		Current: lipgloss.AdaptiveColor{Light: "#bc4c00", Dark: "#f0883e"},
		Recent:  lipgloss.AdaptiveColor{Light: "#8250df", Dark: "#bc8cff"},
	}

	t.Header = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	t.StatusBar = lipgloss.NewStyle().Foreground(t.Subtext)
	t.Selected = lipgloss.NewStyle().Bold(true).Foreground(t.Highlight).Reverse(true)
	t.Muted = lipgloss.NewStyle().Foreground(t.Subtext)
	t.EdgeDot = lipgloss.NewStyle().Foreground(t.Subtext)
	t.FilterOn = lipgloss.NewStyle().Bold(true).Foreground(t.Highlight)
	t.FilterOff = lipgloss.NewStyle().Foreground(t.Subtext)
	t.PreviewBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Subtext).
		Padding(0, 1)
	t.HelpOverlay = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Highlight).
		Padding(1, 2)
	t.SearchPrompt = lipgloss.NewStyle().Foreground(t.Highlight)
	return t
}

// CategoryColor maps a node category to its display color.
func (t Theme) CategoryColor(c model.Category) lipgloss.AdaptiveColor {
	switch c {
	case model.CategoryNotes:
		return t.Notes
	case model.CategoryWork:
		return t.Work
	case model.CategoryReading:
		return t.Reading
	default:
		return t.Nav
	}
}

// NodeColor applies emphasis order: current beats recent beats category.
func (t Theme) NodeColor(n model.Node, currentID string, recent map[string]bool) lipgloss.AdaptiveColor {
	if n.ID == currentID {
		return t.Current
	}
	if recent[n.Path] {
		return t.Recent
	}
	return t.CategoryColor(n.Category)
}
