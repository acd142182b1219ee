// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock is the injectable time source used by the stream
// manager's reconnect timer and the mock device's polling loop.
//
// Production code takes a [Clock] and receives [Real]. Tests pass
// [Fake] and move time with [FakeClock.Advance]; [FakeClock.WaitForTimers]
// closes the race between a goroutine arming a timer and the test
// advancing past it.
package clock

import "time"

// Clock abstracts the time operations binmon uses.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once, d from now, unless the returned Timer is
	// stopped first. Real clocks call f on its own goroutine; the fake
	// calls it synchronously inside Advance.
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker delivers the time on C every d. Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stop func() bool
}

// Stop cancels the call. Returns false if it already ran or was
// already stopped.
func (t *Timer) Stop() bool { return t.stop() }

// Ticker delivers periodic ticks. C has capacity 1; late ticks are
// dropped.
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop turns the ticker off. C is not closed.
func (t *Ticker) Stop() { t.stop() }
