package tui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
)

// Run starts the Bubble Tea program and blocks until the learner quits.
// Raw mode, the alternate screen, and cursor state are restored on every
// exit path, panics included.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tutor: %w", err)
	}
	return nil
}
