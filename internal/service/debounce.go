package service

import (
	"sync"
	"time"
)

// pendingTimer is the minimal surface the debouncer needs from a timer,
// kept as an interface so tests can drive firing without real time.
type pendingTimer interface {
	Stop() bool
}

// timerFactory schedules fn after d and returns a handle to cancel it.
type timerFactory func(d time.Duration, fn func()) pendingTimer

// Debouncer collapses a burst of triggers into a single callback fired
// after a quiet period. Only one timer is ever pending; each trigger
// resets it. Safe for concurrent use.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	fn       func()
	pending  pendingTimer
	schedule timerFactory
	stopped  bool
}

// NewDebouncer creates a debouncer backed by real timers.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return newDebouncer(delay, fn, func(d time.Duration, f func()) pendingTimer {
		return time.AfterFunc(d, f)
	})
}

func newDebouncer(delay time.Duration, fn func(), schedule timerFactory) *Debouncer {
	return &Debouncer{delay: delay, fn: fn, schedule: schedule}
}

// Trigger (re)starts the quiet-period timer. The callback fires once,
// after the last trigger of a burst.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}
	d.pending = d.schedule(d.delay, func() {
		d.mu.Lock()
		d.pending = nil
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			d.fn()
		}
	})
}

// Flush fires the callback immediately if a trigger is pending. Used at
// shutdown so the final mutation still reaches the cloud.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.pending != nil
	if pending {
		d.pending.Stop()
		d.pending = nil
	}
	stopped := d.stopped
	d.mu.Unlock()
	if pending && !stopped {
		d.fn()
	}
}

// Stop cancels any pending trigger and ignores future ones.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
