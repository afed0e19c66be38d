package components

import (
	"fmt"
	"strings"

	"github.com/strickvl/zenlings/internal/ui/theme"
)

// ProgressBarWidth is the number of cells in the exercise progress bar.
const ProgressBarWidth = 30

// ProgressBar displays overall pack progress as a horizontal bar with
// a completed/total counter, e.g. "[#########-----------] 9/20".
type ProgressBar struct {
	Completed int
	Total     int
	Width     int
}

// NewProgressBar creates a progress bar at the default width.
func NewProgressBar(completed, total int) ProgressBar {
	return ProgressBar{
		Completed: completed,
		Total:     total,
		Width:     ProgressBarWidth,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	width := p.Width
	if width < 4 {
		width = 4
	}

	filled := 0
	if p.Total > 0 {
		filled = width * p.Completed / p.Total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := theme.ProgressFilled.Render(strings.Repeat("█", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat("░", width-filled))

	counter := theme.Dim.Render(fmt.Sprintf(" %d/%d", p.Completed, p.Total))

	return bar + counter
}
