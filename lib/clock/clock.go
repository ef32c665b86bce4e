// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the time source for everything in this repository that
// reads the current time or schedules future work. Any function that
// would otherwise call time.Now, time.After, time.AfterFunc, or
// time.NewTicker accepts a Clock instead.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once d
	// has elapsed. If d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time

	// AfterFunc schedules f to run after d. The returned Timer's C
	// field is nil, matching time.AfterFunc. Stop cancels the
	// pending call.
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker delivers ticks on C at the given interval. Panics
	// if d <= 0, matching time.NewTicker.
	NewTicker(d time.Duration) *Ticker
}

// Timer is a scheduled one-shot event. C is nil for AfterFunc timers.
type Timer struct {
	C <-chan time.Time

	stopFunc  func() bool
	resetFunc func(time.Duration) bool
}

// Stop prevents the timer from firing. Returns false if the timer
// already fired or was already stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Reset re-arms the timer to fire after d. Returns true if the timer
// was active before the reset.
func (t *Timer) Reset(d time.Duration) bool { return t.resetFunc(d) }

// Ticker delivers periodic ticks on C. The channel has capacity 1;
// ticks are dropped, not queued, if the consumer falls behind.
type Ticker struct {
	C <-chan time.Time

	stopFunc func()
}

// Stop turns the ticker off. C is not closed.
func (t *Ticker) Stop() { t.stopFunc() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{
		stopFunc:  timer.Stop,
		resetFunc: timer.Reset,
	}
}

func (realClock) NewTicker(d time.Duration) *Ticker {
	ticker := time.NewTicker(d)
	return &Ticker{
		C:        ticker.C,
		stopFunc: ticker.Stop,
	}
}
