package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/strickvl/zenlings/internal/verify"
	"github.com/strickvl/zenlings/internal/watcher"
)

// tickInterval is the frame cadence that drives the debounce check.
const tickInterval = 50 * time.Millisecond

// tickMsg fires every frame tick.
type tickMsg time.Time

// workerMsg wraps one message received from the verification worker.
// ok is false once the worker's channel has closed.
type workerMsg struct {
	msg verify.Message
	ok  bool
}

// watchMsg wraps one event received from the file watcher.
type watchMsg struct {
	ev watcher.Event
	ok bool
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitWorker blocks on the worker channel and delivers the next message.
// The command is re-issued after every receipt, so per-run ordering on the
// channel is preserved through Update.
func waitWorker(ch <-chan verify.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		return workerMsg{msg: msg, ok: ok}
	}
}

// waitWatch blocks on the watcher channel and delivers the next event.
func waitWatch(ch <-chan watcher.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return watchMsg{ev: ev, ok: ok}
	}
}
