// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock. Safe for concurrent use.
//
// AfterFunc callbacks run synchronously on the goroutine calling
// Advance, in deadline order. A callback may arm new timers; those
// fire in the same Advance if their deadline has also passed. A
// callback must not call Advance.
type FakeClock struct {
	mutex   sync.Mutex
	changed *sync.Cond
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	callback func()
	ticks    chan time.Time
	interval time.Duration
	stopped  bool
}

// Fake returns a FakeClock reading initial.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{now: initial}
	clock.changed = sync.NewCond(&clock.mutex)
	return clock
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

// AfterFunc arms a one-shot callback. With d <= 0, f runs before
// AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stop: func() bool { return false }}
	}
	timer := c.add(&fakeTimer{callback: f}, d)
	return &Timer{stop: func() bool { return c.stopTimer(timer) }}
}

// NewTicker arms a repeating tick.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	ticks := make(chan time.Time, 1)
	timer := c.add(&fakeTimer{ticks: ticks, interval: d}, d)
	return &Ticker{C: ticks, stop: func() { c.stopTimer(timer) }}
}

func (c *FakeClock) add(timer *fakeTimer, d time.Duration) *fakeTimer {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	timer.deadline = c.now.Add(d)
	c.pending = append(c.pending, timer)
	c.changed.Broadcast()
	return timer
}

func (c *FakeClock) stopTimer(timer *fakeTimer) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for index, candidate := range c.pending {
		if candidate == timer {
			c.pending = append(c.pending[:index], c.pending[index+1:]...)
			timer.stopped = true
			c.changed.Broadcast()
			return true
		}
	}
	return false
}

// Advance moves time forward by d and fires everything that came due.
// During each callback Now reads that timer's deadline.
func (c *FakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	target := c.now.Add(d)
	c.mutex.Unlock()

	for {
		timer, ok := c.popDue(target)
		if !ok {
			c.mutex.Lock()
			c.now = target
			c.mutex.Unlock()
			return
		}
		if timer.callback != nil {
			timer.callback()
			continue
		}
		select {
		case timer.ticks <- timer.deadline:
		default:
		}
	}
}

// popDue removes and returns the earliest timer due at or before
// target and moves the clock to its deadline. Tickers are re-armed one
// interval later.
func (c *FakeClock) popDue(target time.Time) (*fakeTimer, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	sort.SliceStable(c.pending, func(i, j int) bool {
		return c.pending[i].deadline.Before(c.pending[j].deadline)
	})
	if len(c.pending) == 0 || c.pending[0].deadline.After(target) {
		return nil, false
	}
	timer := c.pending[0]
	if timer.deadline.After(c.now) {
		c.now = timer.deadline
	}
	fired := *timer
	if timer.interval > 0 {
		timer.deadline = timer.deadline.Add(timer.interval)
	} else {
		c.pending = c.pending[1:]
		c.changed.Broadcast()
	}
	return &fired, true
}

// WaitForTimers blocks until at least n timers or tickers are armed.
func (c *FakeClock) WaitForTimers(n int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for len(c.pending) < n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of armed timers and tickers.
func (c *FakeClock) PendingCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.pending)
}
