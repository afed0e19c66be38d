// Package watcher observes the exercises tree and forwards modify/create
// events for learner scripts over a channel.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Event is a message from the watcher. It is one of FileChanged or Error.
type Event interface{ isEvent() }

// FileChanged reports that a learner script was written or created.
type FileChanged struct {
	Path string
}

// Error reports a watcher-internal failure. The session continues.
type Error struct {
	Message string
}

func (FileChanged) isEvent() {}
func (Error) isEvent()       {}

// Watcher wraps fsnotify and filters events down to learner scripts.
// Close stops the underlying watcher; the event channel then closes.
type Watcher struct {
	fsw       *fsnotify.Watcher
	events    chan Event
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	ext       string
	log       zerolog.Logger
}

// New starts watching root and its subdirectories for files with the given
// extension (e.g. ".py"). Editors that save via write-temp-then-rename
// produce Create events on the target path, so both Write and Create count.
func New(root, ext string, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		events: make(chan Event, 64),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		ext:    ext,
		log:    log,
	}

	// fsnotify is not recursive; register every subdirectory up front.
	// New directories are picked up from Create events in the loop.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	go w.loop()
	return w, nil
}

// Events returns the channel of watcher events. It closes after Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the platform watcher and waits for the forwarding goroutine.
// Events still buffered when Close is called are discarded.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { close(w.quit) })
	err := w.fsw.Close()
	<-w.done
	return err
}

// send delivers one event unless Close has been requested, so the
// forwarding goroutine can always exit even with a full buffer and no
// consumer.
func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
	case <-w.quit:
	}
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.events)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
			w.send(Error{Message: err.Error()})
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.fsw.Add(ev.Name); err != nil {
				w.log.Warn().Err(err).Str("dir", ev.Name).Msg("watch new directory")
			}
			return
		}
	}

	if filepath.Ext(ev.Name) != w.ext {
		return
	}

	w.log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("file event")
	w.send(FileChanged{Path: ev.Name})
}
