package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/strickvl/zenlings/internal/ui/components"
	"github.com/strickvl/zenlings/internal/ui/layout"
	"github.com/strickvl/zenlings/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	var content, title string
	var hints []layout.KeyHint

	switch {
	case m.mode == modeWelcome:
		title = "Welcome"
		content = m.viewMessage(m.catalog.Info.WelcomeMessage)
		hints = continueHints()
	case m.mode == modeModal:
		title = m.modal.title
		content = m.viewModal()
		hints = continueHints()
	case m.mode == modeList:
		title = "Exercises"
		content = m.viewList()
		hints = continueHints()
	case m.allDone() && m.catalog.Info.FinalMessage != "":
		title = "All done!"
		content = m.viewMessage(m.catalog.Info.FinalMessage)
		hints = []layout.KeyHint{{Key: "q", Description: "Quit"}}
	default:
		title = m.current().DisplayPath()
		content = m.viewMain()
		hints = mainHints()
	}

	header := layout.RenderHeader(title, m.completedCount(), m.catalog.Len(), m.width)
	footer := layout.RenderFooter(hints, m.width)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func mainHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "n/p", Description: "Next/Prev"},
		{Key: "h", Description: "Hint"},
		{Key: "l", Description: "List"},
		{Key: "r", Description: "Rerun"},
		{Key: "s", Description: "Solution"},
		{Key: "o", Description: "Open"},
		{Key: "q", Description: "Quit"},
	}
}

func continueHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "q", Description: "Quit"},
	}
}

// viewMain renders the progress bar, the current exercise, the status
// band, and a tail of recent subprocess output.
func (m Model) viewMain() string {
	var b strings.Builder

	bar := components.NewProgressBar(m.completedCount(), m.catalog.Len())
	b.WriteString("\n  " + bar.View() + "\n\n")

	ex := m.current()
	b.WriteString("  " + theme.Body.Render(fmt.Sprintf("Current exercise: %s", ex.DisplayPath())))
	b.WriteString(theme.Dim.Render(fmt.Sprintf("  (%d/%d)", m.index+1, m.catalog.Len())))
	b.WriteString("\n\n")

	b.WriteString("  " + m.statusBand() + "\n\n")

	used := lipgloss.Height(b.String())
	for _, line := range m.outputTail(used) {
		b.WriteString("  " + theme.Dim.Render(line) + "\n")
	}

	return b.String()
}

// statusBand shows one of Ready, Running, Passed, or Failed.
func (m Model) statusBand() string {
	switch {
	case m.verifying:
		return m.spinner.View() + theme.Running.Render(" Verifying… save again to restart the clock")
	case m.lastResult != nil && m.lastResult.Passed():
		msg := m.lastResult.Message
		if msg == "" {
			msg = "Passed"
		}
		return theme.Passed.Render("✓ " + msg)
	case m.lastResult != nil:
		return theme.Failed.Render("✗ " + m.lastResult.Message)
	default:
		return theme.Dim.Render("Ready — edit and save the exercise file to verify")
	}
}

// outputTail returns the newest ring lines that fit the remaining rows.
func (m Model) outputTail(usedRows int) []string {
	avail := m.height - layout.HeaderHeight - layout.FooterHeight - usedRows
	if avail <= 0 || len(m.ring) == 0 {
		return nil
	}
	if len(m.ring) <= avail {
		return m.ring
	}
	return m.ring[len(m.ring)-avail:]
}

// viewList renders every exercise with a completion glyph and a caret on
// the current one.
func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString("\n")
	for i, ex := range m.catalog.Exercises {
		caret := "  "
		if i == m.index {
			caret = theme.Selected.Render("› ")
		}

		glyph := theme.Pending.Render("○")
		if m.record.IsCompleted(ex.Name) {
			glyph = theme.Done.Render("✓")
		}

		name := theme.Unselected.Render(ex.DisplayPath())
		if i == m.index {
			name = theme.Selected.Render(ex.DisplayPath())
		}

		b.WriteString(fmt.Sprintf("  %s%s %s\n", caret, glyph, name))
	}
	return b.String()
}

func (m Model) viewModal() string {
	card := theme.Card.Width(min(m.width-8, 76)).Render(
		theme.Title.Render(m.modal.title) + "\n\n" + theme.Body.Render(m.modal.body),
	)
	return "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card)
}

func (m Model) viewMessage(msg string) string {
	card := theme.Card.Width(min(m.width-8, 76)).Render(theme.Body.Render(msg))
	return "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card)
}
