package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/strickvl/zenlings/internal/ui/theme"
)

// Spinner wraps bubbles/spinner with zenlings styling, shown while a
// verification run is in flight.
type Spinner struct {
	Model spinner.Model
}

// NewSpinner creates a styled spinner.
func NewSpinner() Spinner {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Running
	return Spinner{Model: sp}
}

// Tick starts the spinner animation.
func (s Spinner) Tick() tea.Cmd {
	return s.Model.Tick
}

// Update handles spinner tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the current spinner frame.
func (s Spinner) View() string {
	return s.Model.View()
}
