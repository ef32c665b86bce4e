// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock frozen at the given time. Time moves only
// when Advance is called; pending timers and tickers fire in deadline
// order as the clock passes them.
//
// FakeClock is safe for concurrent use.
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{current: initial}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// FakeClock is a deterministic Clock for tests. AfterFunc callbacks
// run synchronously inside Advance, in deadline order. Calling
// Advance from inside a callback deadlocks; don't.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*waiter
	changed *sync.Cond
}

// waiter is one pending timer or ticker registration.
type waiter struct {
	deadline time.Time

	// Exactly one of channel and callback is set: channel for
	// After/Ticker waiters, callback for AfterFunc.
	channel  chan time.Time
	callback func()

	// interval is non-zero for tickers; the waiter is re-armed at
	// deadline+interval after each fire.
	interval time.Duration

	stopped bool
	fired   bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives once the clock advances past
// now+d. If d <= 0 it receives immediately.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}
	c.waiters = append(c.waiters, &waiter{
		deadline: c.current.Add(d),
		channel:  channel,
	})
	c.changed.Broadcast()
	return channel
}

// AfterFunc schedules f to run when the clock advances past now+d.
// If d <= 0, f runs synchronously before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	c.mu.Lock()
	if d <= 0 {
		c.mu.Unlock()
		f()
		return &Timer{
			stopFunc:  func() bool { return false },
			resetFunc: func(time.Duration) bool { return false },
		}
	}
	defer c.mu.Unlock()

	w := &waiter{
		deadline: c.current.Add(d),
		callback: f,
	}
	c.waiters = append(c.waiters, w)
	c.changed.Broadcast()

	return &Timer{
		stopFunc: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if w.stopped || w.fired {
				return false
			}
			w.stopped = true
			return true
		},
		resetFunc: func(d time.Duration) bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			wasActive := !w.stopped && !w.fired
			w.stopped = false
			w.fired = false
			w.deadline = c.current.Add(d)
			if !wasActive {
				// The waiter was dropped from the list when it
				// fired; put it back.
				c.waiters = append(c.waiters, w)
				c.changed.Broadcast()
			}
			return wasActive
		},
	}
}

// NewTicker delivers a tick each time the clock advances past another
// interval boundary. Panics if d <= 0.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	w := &waiter{
		deadline: c.current.Add(d),
		channel:  channel,
		interval: d,
	}
	c.waiters = append(c.waiters, w)
	c.changed.Broadcast()

	return &Ticker{
		C: channel,
		stopFunc: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			w.stopped = true
		},
	}
}

// Advance moves the clock forward by d and fires every waiter whose
// deadline falls within the new time, in deadline order. Channel
// sends are non-blocking (a full buffer drops the tick, matching
// time.Ticker).
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current
	c.mu.Unlock()

	for {
		expired := c.takeExpired(target)
		if len(expired) == 0 {
			return
		}
		sort.Slice(expired, func(i, j int) bool {
			return expired[i].deadline.Before(expired[j].deadline)
		})
		for _, w := range expired {
			if w.callback != nil {
				w.callback()
			} else {
				select {
				case w.channel <- target:
				default:
				}
			}
		}
	}
}

// takeExpired removes waiters due at or before target from the
// pending list, re-arming tickers for their next interval.
func (c *FakeClock) takeExpired(target time.Time) []*waiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired, remaining []*waiter
	for _, w := range c.waiters {
		if w.stopped {
			continue
		}
		if !w.deadline.After(target) {
			expired = append(expired, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	for _, w := range expired {
		if w.interval > 0 {
			w.deadline = w.deadline.Add(w.interval)
			remaining = append(remaining, w)
		} else {
			w.fired = true
		}
	}
	c.waiters = remaining
	return expired
}

// WaitForTimers blocks until at least n waiters are pending. Removes
// the race between a goroutine registering a timer and the test
// advancing the clock past it.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingLocked() < n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of active pending waiters.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked()
}

func (c *FakeClock) pendingLocked() int {
	count := 0
	for _, w := range c.waiters {
		if !w.stopped {
			count++
		}
	}
	return count
}
