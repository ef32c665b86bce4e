// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func TestFakeNow(t *testing.T) {
	c := Fake(epoch)
	if got := c.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	c.Advance(90 * time.Second)
	if got := c.Now(); !got.Equal(epoch.Add(90 * time.Second)) {
		t.Fatalf("Now() after Advance = %v, want %v", got, epoch.Add(90*time.Second))
	}
}

func TestFakeAfter(t *testing.T) {
	c := Fake(epoch)
	ch := c.After(10 * time.Second)

	select {
	case <-ch:
		t.Fatal("After channel fired before Advance")
	default:
	}

	c.Advance(9 * time.Second)
	select {
	case <-ch:
		t.Fatal("After channel fired one second early")
	default:
	}

	c.Advance(time.Second)
	select {
	case <-ch:
	default:
		t.Fatal("After channel did not fire at its deadline")
	}
}

func TestFakeAfterZeroDuration(t *testing.T) {
	c := Fake(epoch)
	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeAfterFuncOrdering(t *testing.T) {
	c := Fake(epoch)

	var order []string
	c.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	c.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	c.AfterFunc(2*time.Second, func() { order = append(order, "b") })

	c.Advance(5 * time.Second)

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("callbacks fired in order %v, want [a b c]", order)
	}
}

func TestFakeAfterFuncStop(t *testing.T) {
	c := Fake(epoch)

	fired := false
	timer := c.AfterFunc(time.Minute, func() { fired = true })
	if !timer.Stop() {
		t.Fatal("Stop on a pending timer returned false")
	}
	if timer.Stop() {
		t.Fatal("second Stop returned true")
	}

	c.Advance(2 * time.Minute)
	if fired {
		t.Fatal("stopped timer fired")
	}
}

func TestFakeAfterFuncReset(t *testing.T) {
	c := Fake(epoch)

	count := 0
	timer := c.AfterFunc(time.Minute, func() { count++ })

	c.Advance(time.Minute)
	if count != 1 {
		t.Fatalf("fired %d times before reset, want 1", count)
	}

	if timer.Reset(time.Minute) {
		t.Fatal("Reset on a fired timer reported it as active")
	}
	c.Advance(time.Minute)
	if count != 2 {
		t.Fatalf("fired %d times after reset, want 2", count)
	}
}

func TestFakeTicker(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(10 * time.Second)

	for i := 0; i < 3; i++ {
		c.Advance(10 * time.Second)
		select {
		case <-ticker.C:
		default:
			t.Fatalf("tick %d not delivered", i)
		}
	}

	ticker.Stop()
	c.Advance(time.Minute)
	select {
	case <-ticker.C:
		t.Fatal("tick delivered after Stop")
	default:
	}
}

func TestFakePendingCount(t *testing.T) {
	c := Fake(epoch)
	if n := c.PendingCount(); n != 0 {
		t.Fatalf("PendingCount on fresh clock = %d, want 0", n)
	}

	timer := c.AfterFunc(time.Minute, func() {})
	c.After(time.Hour)
	if n := c.PendingCount(); n != 2 {
		t.Fatalf("PendingCount = %d, want 2", n)
	}

	timer.Stop()
	if n := c.PendingCount(); n != 1 {
		t.Fatalf("PendingCount after Stop = %d, want 1", n)
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	c := Fake(epoch)

	done := make(chan struct{})
	go func() {
		c.WaitForTimers(1)
		close(done)
	}()

	c.AfterFunc(time.Minute, func() {})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForTimers did not observe the new timer")
	}
}
