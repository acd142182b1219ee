// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import "time"

// State is the connection lifecycle state.
type State int

const (
	// StateIdle is the state before Start.
	StateIdle State = iota
	// StateConnecting means a dial is in flight.
	StateConnecting
	// StateConnected means a channel is open and being read.
	StateConnected
	// StateWaiting means the last channel failed and a reconnect
	// timer is armed.
	StateWaiting
	// StateClosed is terminal; reached only through Close.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateWaiting:
		return "waiting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Status is a point-in-time view of a Manager for connection
// indicators.
type Status struct {
	State State

	// Generation is the number of the current (or last) connection
	// attempt. Zero before Start.
	Generation uint64

	// Connects counts attempts that reached StateConnected.
	Connects uint64

	// Received counts messages read; Dropped counts those that failed
	// to decode.
	Received uint64
	Dropped  uint64

	// LastMessageAt is zero until the first message arrives.
	LastMessageAt time.Time

	// RetryAt is the reconnect deadline while StateWaiting.
	RetryAt time.Time

	// LastError is the error that ended the previous channel, if any.
	LastError string
}
