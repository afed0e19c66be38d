// Package tui hosts the interactive tutor: a single Bubble Tea model that
// owns all mutable session state and fuses keyboard input, file-watch
// events, and verification worker messages into one view.
package tui

import (
	"context"
	"fmt"
	"os"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/strickvl/zenlings/internal/exercise"
	"github.com/strickvl/zenlings/internal/history"
	"github.com/strickvl/zenlings/internal/progress"
	"github.com/strickvl/zenlings/internal/ui/components"
	"github.com/strickvl/zenlings/internal/verify"
	"github.com/strickvl/zenlings/internal/watcher"
)

// outputRingCap bounds the number of subprocess output lines kept for
// display. Oldest lines are evicted first.
const outputRingCap = 100

// viewMode selects which view the model renders.
type viewMode int

const (
	modeMain viewMode = iota
	modeList
	modeModal
	modeWelcome
)

// modal is the titled body shown over the main view until Continue.
type modal struct {
	title string
	body  string
}

// Config wires the model to its collaborators. Worker, Watch, and History
// may be nil; the corresponding feature is then disabled.
type Config struct {
	Catalog      *exercise.Catalog
	Record       *progress.Record
	ProgressPath string
	Worker       *verify.Worker
	Watch        *watcher.Watcher
	History      *history.Store
	Simple       bool
	StartIndex   int
	Log          zerolog.Logger
}

// Model is the application loop: the sole owner of mutable session state.
type Model struct {
	catalog      *exercise.Catalog
	record       *progress.Record
	progressPath string

	worker  *verify.Worker
	watch   *watcher.Watcher
	history *history.Store
	simple  bool
	log     zerolog.Logger

	index      int
	lastResult *verify.Result
	verifying  bool
	pending    bool
	debounce   *watcher.Debouncer
	ring       []string

	mode  viewMode
	modal modal

	spinner components.Spinner
	width   int
	height  int
}

// New builds the model. The welcome modal is shown when the learner has
// not completed anything yet and the pack carries a welcome message.
func New(cfg Config) Model {
	m := Model{
		catalog:      cfg.Catalog,
		record:       cfg.Record,
		progressPath: cfg.ProgressPath,
		worker:       cfg.Worker,
		watch:        cfg.Watch,
		history:      cfg.History,
		simple:       cfg.Simple,
		log:          cfg.Log,
		index:        cfg.StartIndex,
		debounce:     watcher.NewDebouncer(watcher.DefaultDebounce),
		spinner:      components.NewSpinner(),
	}
	m.clampIndex()

	if len(cfg.Record.Completed) == 0 && cfg.Catalog.Info.WelcomeMessage != "" {
		m.mode = modeWelcome
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.worker != nil {
		cmds = append(cmds, waitWorker(m.worker.Messages()))
	}
	if m.watch != nil {
		cmds = append(cmds, waitWatch(m.watch.Events()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tickMsg:
		if m.pending && m.debounce.Ready() && !m.verifying {
			m.startVerification()
			if m.verifying {
				return m, tea.Batch(tick(), m.spinner.Tick())
			}
		}
		return m, tick()

	case spinner.TickMsg:
		if !m.verifying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case workerMsg:
		if !msg.ok {
			return m, nil
		}
		m.handleWorkerMessage(msg.msg)
		return m, waitWorker(m.worker.Messages())

	case watchMsg:
		if !msg.ok {
			return m, nil
		}
		m.handleWatchEvent(msg.ev)
		return m, waitWatch(m.watch.Events())
	}

	return m, nil
}

// current returns the exercise under the cursor.
func (m *Model) current() exercise.Exercise {
	return m.catalog.Exercises[m.index]
}

// completedCount counts catalog exercises present in the progress record.
// Stale identifiers in the record are ignored.
func (m *Model) completedCount() int {
	n := 0
	for _, ex := range m.catalog.Exercises {
		if m.record.IsCompleted(ex.Name) {
			n++
		}
	}
	return n
}

func (m *Model) allDone() bool {
	return m.completedCount() == m.catalog.Len()
}

func (m *Model) clampIndex() {
	if m.index < 0 {
		m.index = 0
	}
	if m.index >= m.catalog.Len() {
		m.index = m.catalog.Len() - 1
	}
}

// pushLine appends to the output ring, evicting the oldest over cap.
func (m *Model) pushLine(line string) {
	m.ring = append(m.ring, line)
	if len(m.ring) > outputRingCap {
		m.ring = m.ring[len(m.ring)-outputRingCap:]
	}
}

func (m *Model) handleWorkerMessage(msg verify.Message) {
	switch msg := msg.(type) {
	case verify.Output:
		switch line := msg.Line.(type) {
		case verify.StdoutLine:
			m.pushLine(string(line))
		case verify.StderrLine:
			m.pushLine(string(line))
		case verify.DoneLine:
			// The verdict arrives with the Completed message.
		}

	case verify.Completed:
		m.applyResult(msg.Result)
	}
}

// applyResult consumes one verification result. Results whose exercise no
// longer matches the current one are dropped: the learner moved on while
// the run was in flight.
func (m *Model) applyResult(r verify.Result) {
	if r.ExerciseName != m.current().Name {
		m.log.Debug().
			Str("result_exercise", r.ExerciseName).
			Str("current_exercise", m.current().Name).
			Msg("stale result dropped")
		return
	}

	m.lastResult = &r
	m.verifying = false
	m.recordRun(r)

	if r.Passed() && !m.record.IsCompleted(r.ExerciseName) {
		m.record.MarkCompleted(r.ExerciseName)
		m.saveProgress()
	}
}

// recordRun appends the attempt to the history log, best effort.
func (m *Model) recordRun(r verify.Result) {
	if m.history == nil {
		return
	}
	mode := "full"
	if m.simple {
		mode = "simple"
	}
	err := m.history.Append(context.Background(), history.Run{
		ID:       r.RunID,
		Exercise: r.ExerciseName,
		Passed:   r.Passed(),
		Message:  r.Message,
		Duration: r.Duration,
		Mode:     mode,
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("record verification run")
	}
}

func (m *Model) handleWatchEvent(ev watcher.Event) {
	switch ev := ev.(type) {
	case watcher.FileChanged:
		if ev.Path == m.current().Path {
			m.debounce.Observe()
			m.pending = true
		}
	case watcher.Error:
		m.log.Warn().Str("error", ev.Message).Msg("watcher reported error")
		m.pushLine("watcher: " + ev.Message)
	}
}

// startVerification submits the current exercise to the worker and resets
// the per-run display state.
func (m *Model) startVerification() {
	if m.worker == nil {
		return
	}
	m.verifying = true
	m.lastResult = nil
	m.ring = nil
	m.pending = false
	m.debounce.Reset()
	m.worker.Submit(m.current())
}

// saveProgress persists the record. Failures surface as a modal and the
// in-memory state stays authoritative; the next save retries.
func (m *Model) saveProgress() {
	m.record.Current = m.current().Name
	if err := progress.Save(m.progressPath, m.record); err != nil {
		m.log.Error().Err(err).Msg("save progress")
		m.showModal("Progress not saved", err.Error())
	}
}

func (m *Model) showModal(title, body string) {
	m.modal = modal{title: title, body: body}
	m.mode = modeModal
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	// Any non-main view waits for Continue; other keys are ignored.
	if m.mode != modeMain {
		switch key {
		case "enter", "esc":
			m.mode = modeMain
		}
		return m, nil
	}

	switch key {
	case "n":
		m.moveTo(m.index + 1)
	case "p":
		m.moveTo(m.index - 1)
	case "h":
		m.showHint()
	case "l":
		m.mode = modeList
	case "r":
		if !m.verifying {
			m.startVerification()
			if m.verifying {
				return m, m.spinner.Tick()
			}
		}
	case "s":
		m.showSolution()
	case "o":
		if err := openPath(m.current().Path); err != nil {
			m.showModal("Could not open file", err.Error())
		}
	}
	return m, nil
}

// moveTo changes the current exercise, clamped to catalog bounds.
func (m *Model) moveTo(index int) {
	prev := m.index
	m.index = index
	m.clampIndex()
	if m.index == prev {
		return
	}
	m.lastResult = nil
	m.ring = nil
	m.pending = false
	m.debounce.Reset()
	m.saveProgress()
}

func (m *Model) showHint() {
	ex := m.current()
	if ex.Hint == "" {
		m.showModal("No hint", "This exercise has no hint. You've got this!")
		return
	}
	m.record.RecordHint(ex.Name)
	m.saveProgress()
	m.showModal(fmt.Sprintf("Hint for %s", ex.Name), ex.Hint)
}

func (m *Model) showSolution() {
	ex := m.current()
	data, err := os.ReadFile(ex.SolutionPath)
	if err != nil {
		m.showModal("Solution unavailable",
			fmt.Sprintf("Could not read %s.\nTry solving it yourself first!", ex.DisplayPath()))
		return
	}
	m.showModal(fmt.Sprintf("Solution for %s", ex.Name), string(data))
}
