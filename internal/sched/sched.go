// Package sched owns the viewer's timers: the recurring navigation tick and
// one-shot debounce timers. Time is injected through the Clock interface so
// timing behavior is testable without a real clock.
package sched

import (
	"sync"
	"time"
)

// Clock abstracts time for timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable one-shot timer.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// RealClock is the production Clock backed by package time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delays a function until its trigger has been quiet for the
// configured interval. Each Trigger cancels the pending call and restarts
// the wait, so at most one call is outstanding.
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu    sync.Mutex
	timer Timer
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	return &Debouncer{clock: clock, delay: delay}
}

// Trigger schedules f to run after the quiet interval, cancelling any
// previously scheduled call.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.delay, f)
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Ticker invokes a function at a fixed interval on its own goroutine.
// Ticks are strictly serialized: one call completes before the next fires.
type Ticker struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewTicker creates a stopped ticker with the given interval.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

// Start begins invoking f every interval. Starting a running ticker is a
// no-op.
func (t *Ticker) Start(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	stop := make(chan struct{})
	t.stop = stop

	go func() {
		tick := time.NewTicker(t.interval)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				f()
			}
		}
	}()
}

// Stop halts the tick loop. Stopping a stopped ticker is a no-op.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}
