package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiet period before a pending value is committed
const DefaultWindow = 500 * time.Millisecond

// Debouncer collapses bursts of input into a single commit. Each Trigger
// replaces the pending value and restarts the quiet window; the commit
// callback fires only after the window elapses with no further input.
type Debouncer struct {
	window time.Duration
	commit func(string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	stopped bool
}

// New creates a debouncer. A non-positive window falls back to DefaultWindow.
func New(window time.Duration, commit func(string)) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{window: window, commit: commit}
}

// Trigger records a new pending value and restarts the quiet window
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = value

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.commit(value)
}

// Cancel drops the pending value without committing it
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = ""
}

// Stop cancels any pending commit and prevents future triggers.
// No commit fires after Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
