package persist

import (
	"sync"
	"time"
)

// Debouncer is a single-slot deferred task: each Trigger cancels and
// restarts the same timer, so bursts of activity collapse into one firing
// after the quiet period. There is no queue to grow and no timer fan-out; a
// superseded trigger simply never fires.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
}

// NewDebouncer wraps fn with the given quiet period.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules the task, restarting the quiet period if one is already
// pending.
func (d *Debouncer) Trigger() {
	if d == nil || d.fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		d.timer = nil
		d.mu.Unlock()
		d.fn()
	})
}

// Force cancels any pending firing and runs the task synchronously.
func (d *Debouncer) Force() {
	if d == nil || d.fn == nil {
		return
	}
	d.Stop()
	d.fn()
}

// Stop cancels a pending firing without running the task.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a firing is scheduled.
func (d *Debouncer) Pending() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
