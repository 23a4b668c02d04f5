package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal host and blocks until the user quits. Turns still
// in flight are abandoned with the process.
func Run(config ModelConfig) error {
	p := tea.NewProgram(NewModel(config), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
