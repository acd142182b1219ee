// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package surface

import "github.com/smartdusbin/binmon/lib/schema/bin"

// Placeholder is the text shown when a value is unknown.
const Placeholder = "--"

// ServoPosition is the mutually exclusive lid indicator state.
type ServoPosition int

const (
	// PositionUnknown shows neither the open nor the closed style.
	PositionUnknown ServoPosition = iota
	PositionOpen
	PositionClosed
)

func (p ServoPosition) String() string {
	switch p {
	case PositionOpen:
		return "open"
	case PositionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// CategoryPanel is the card for one compartment.
type CategoryPanel interface {
	// SetDistanceText replaces the distance readout.
	SetDistanceText(text string)
	// SetFull toggles the full style on the card.
	SetFull(full bool)
}

// TextReadout is a single line of text.
type TextReadout interface {
	SetText(text string)
}

// ServoReadout is the lid servo indicator: a text readout plus a
// positional style.
type ServoReadout interface {
	TextReadout
	SetPosition(position ServoPosition)
}

// AlertPanel is the misplaced-item modal.
type AlertPanel interface {
	SetMessage(message string)
	// SetOpen shows or hides the modal. Opening also clears the
	// accessibility-hidden flag; closing sets it.
	SetOpen(open bool)
	Open() bool
}

// Surface resolves render targets. The boolean result is false when
// the surface has no such target.
type Surface interface {
	Category(category bin.Category) (CategoryPanel, bool)
	Servo() (ServoReadout, bool)
	Stepper() (TextReadout, bool)
	Alert() (AlertPanel, bool)
}
