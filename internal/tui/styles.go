package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the terminal styling for the widget.
type Styles struct {
	Page    lipgloss.Style
	Trigger lipgloss.Style

	ModalBorder lipgloss.Style
	Title       lipgloss.Style

	Suggestion       lipgloss.Style
	SuggestionActive lipgloss.Style

	MineBubble   lipgloss.Style
	TheirsBubble lipgloss.Style
	ErrorBubble  lipgloss.Style

	Input lipgloss.Style
	Muted lipgloss.Style
}

// NewStyles creates the style set using the given renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Page: r.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(1, 2),
		Trigger: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("29")).
			Padding(0, 2),

		ModalBorder: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("29")).
			Padding(0, 1),
		Title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("29")),

		Suggestion: r.NewStyle().
			Foreground(lipgloss.Color("29")).
			Background(lipgloss.Color("194")).
			Padding(0, 1),
		SuggestionActive: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("29")).
			Padding(0, 1),

		MineBubble: r.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("29")).
			Padding(0, 1),
		TheirsBubble: r.NewStyle().
			Foreground(lipgloss.Color("236")).
			Background(lipgloss.Color("194")).
			Padding(0, 1),
		ErrorBubble: r.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("124")).
			Padding(0, 1),

		Input: r.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("72")),
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}
