package watcher

import "time"

// DefaultDebounce is the quiet period before a save burst triggers a run.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer implements trailing-edge debouncing: Observe on every event,
// and Ready reports true once the quiet period has elapsed since the most
// recent event. Each event pushes the deadline forward.
type Debouncer struct {
	delay time.Duration
	last  time.Time
	armed bool

	now func() time.Time
}

// NewDebouncer returns a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, now: time.Now}
}

// Observe records an event at the current time, deferring the trigger.
func (d *Debouncer) Observe() {
	d.last = d.now()
	d.armed = true
}

// Ready reports whether an event was observed and the quiet period has
// elapsed since the most recent one.
func (d *Debouncer) Ready() bool {
	return d.armed && d.now().Sub(d.last) >= d.delay
}

// Reset clears the recorded event.
func (d *Debouncer) Reset() {
	d.armed = false
}
