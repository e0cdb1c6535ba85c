package service

import (
	"testing"
	"time"
)

// fakeTimer records Stop calls and exposes the scheduled callback so
// tests can fire it deterministically.
type fakeTimer struct {
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) schedule(d time.Duration, fn func()) pendingTimer {
	timer := &fakeTimer{fn: fn}
	s.timers = append(s.timers, timer)
	return timer
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	fired := 0
	sched := &fakeScheduler{}
	d := newDebouncer(time.Second, func() { fired++ }, sched.schedule)

	// Three triggers in a burst: each resets the pending timer.
	d.Trigger()
	d.Trigger()
	d.Trigger()

	if len(sched.timers) != 3 {
		t.Fatalf("scheduled %d timers, want 3", len(sched.timers))
	}
	if !sched.timers[0].stopped || !sched.timers[1].stopped {
		t.Error("earlier timers were not cancelled by later triggers")
	}
	if sched.timers[2].stopped {
		t.Error("latest timer was cancelled")
	}

	// Only the surviving timer fires, and only once.
	sched.timers[2].fn()
	if fired != 1 {
		t.Errorf("callback fired %d times, want 1", fired)
	}
}

func TestDebouncerTriggerAfterFire(t *testing.T) {
	fired := 0
	sched := &fakeScheduler{}
	d := newDebouncer(time.Second, func() { fired++ }, sched.schedule)

	d.Trigger()
	sched.timers[0].fn()
	d.Trigger()
	sched.timers[1].fn()

	if fired != 2 {
		t.Errorf("callback fired %d times, want 2", fired)
	}
}

func TestDebouncerFlush(t *testing.T) {
	fired := 0
	sched := &fakeScheduler{}
	d := newDebouncer(time.Second, func() { fired++ }, sched.schedule)

	// Flush with nothing pending does nothing.
	d.Flush()
	if fired != 0 {
		t.Fatalf("flush with no pending trigger fired %d times", fired)
	}

	d.Trigger()
	d.Flush()
	if fired != 1 {
		t.Errorf("flush fired %d times, want 1", fired)
	}
	if !sched.timers[0].stopped {
		t.Error("flush did not cancel the pending timer")
	}

	// The cancelled timer firing late must not double-run the callback.
	d.Flush()
	if fired != 1 {
		t.Errorf("second flush fired again, total %d", fired)
	}
}

func TestDebouncerStop(t *testing.T) {
	fired := 0
	sched := &fakeScheduler{}
	d := newDebouncer(time.Second, func() { fired++ }, sched.schedule)

	d.Trigger()
	d.Stop()
	sched.timers[0].fn()
	d.Trigger()

	if fired != 0 {
		t.Errorf("stopped debouncer fired %d times", fired)
	}
	if len(sched.timers) != 1 {
		t.Errorf("trigger after stop scheduled a timer")
	}
}
