// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package surface

import (
	"slices"
	"sync"

	"github.com/smartdusbin/binmon/lib/schema/bin"
)

// ChangeKind names the target a [Change] touched.
type ChangeKind string

const (
	ChangeCategory ChangeKind = "category"
	ChangeServo    ChangeKind = "servo"
	ChangeStepper  ChangeKind = "stepper"
	ChangeAlert    ChangeKind = "alert"
)

// Change announces one mutation. Category is set for ChangeCategory.
// Mutations that leave the target unchanged are not announced.
type Change struct {
	Revision uint64
	Kind     ChangeKind
	Category bin.Category
}

// CategoryState is the rendered state of one compartment card.
type CategoryState struct {
	Category     bin.Category
	DistanceText string
	Full         bool
}

// ServoState is the rendered state of the servo indicator.
type ServoState struct {
	Text     string
	Position ServoPosition
}

// AlertState is the rendered state of the alert modal.
type AlertState struct {
	Open    bool
	Hidden  bool
	Message string
}

// Snapshot is a consistent copy of everything a [Memory] displays.
// The Has* flags report which optional targets exist.
type Snapshot struct {
	Revision   uint64
	Categories []CategoryState

	HasServo   bool
	Servo      ServoState
	HasStepper bool
	Stepper    string
	HasAlert   bool
	Alert      AlertState
}

// Category returns the state of one compartment.
func (s Snapshot) Category(category bin.Category) (CategoryState, bool) {
	for _, state := range s.Categories {
		if state.Category == category {
			return state, true
		}
	}
	return CategoryState{}, false
}

// Option configures a [Memory].
type Option func(*Memory)

// WithoutAlertPanel builds a surface with no alert modal.
func WithoutAlertPanel() Option {
	return func(m *Memory) { m.hasAlert = false }
}

// WithPlaceholder sets the text every readout shows before its first
// value. Empty keeps [Placeholder].
func WithPlaceholder(text string) Option {
	return func(m *Memory) {
		if text != "" {
			m.placeholder = text
		}
	}
}

// WithoutGlobal builds a surface with no servo or stepper readouts.
func WithoutGlobal() Option {
	return func(m *Memory) {
		m.hasServo = false
		m.hasStepper = false
	}
}

// Memory is a mutex-guarded [Surface] that keeps display state in
// memory. Safe for concurrent use.
type Memory struct {
	placeholder string

	mutex       sync.Mutex
	revision    uint64
	categories  []CategoryState
	hasServo    bool
	servo       ServoState
	hasStepper  bool
	stepper     string
	hasAlert    bool
	alert       AlertState
	subscribers []chan Change
}

// NewMemory creates a surface with one card per category, in order.
// Every readout starts at the placeholder ([Placeholder] unless
// [WithPlaceholder] is given) and the alert starts closed and hidden.
func NewMemory(categories []bin.Category, options ...Option) *Memory {
	memory := &Memory{
		placeholder: Placeholder,
		hasServo:    true,
		hasStepper:  true,
		hasAlert:    true,
		alert:       AlertState{Hidden: true},
	}
	for _, option := range options {
		option(memory)
	}
	memory.servo = ServoState{Text: memory.placeholder}
	memory.stepper = memory.placeholder
	for _, category := range categories {
		memory.categories = append(memory.categories, CategoryState{
			Category:     category,
			DistanceText: memory.placeholder,
		})
	}
	return memory
}

// Snapshot returns a copy of the current display state.
func (m *Memory) Snapshot() Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return Snapshot{
		Revision:   m.revision,
		Categories: slices.Clone(m.categories),
		HasServo:   m.hasServo,
		Servo:      m.servo,
		HasStepper: m.hasStepper,
		Stepper:    m.stepper,
		HasAlert:   m.hasAlert,
		Alert:      m.alert,
	}
}

// Revision returns the number of announced mutations so far.
func (m *Memory) Revision() uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.revision
}

// Subscribe returns a channel that receives a [Change] after every
// mutation. Changes are dropped when the subscriber falls behind;
// consumers re-read [Memory.Snapshot] rather than replaying changes.
func (m *Memory) Subscribe() <-chan Change {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	channel := make(chan Change, 64)
	m.subscribers = append(m.subscribers, channel)
	return channel
}

// Category implements [Surface].
func (m *Memory) Category(category bin.Category) (CategoryPanel, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for index := range m.categories {
		if m.categories[index].Category == category {
			return categoryPanel{memory: m, index: index}, true
		}
	}
	return nil, false
}

// Servo implements [Surface].
func (m *Memory) Servo() (ServoReadout, bool) {
	if !m.hasServo {
		return nil, false
	}
	return servoReadout{memory: m}, true
}

// Stepper implements [Surface].
func (m *Memory) Stepper() (TextReadout, bool) {
	if !m.hasStepper {
		return nil, false
	}
	return stepperReadout{memory: m}, true
}

// Alert implements [Surface].
func (m *Memory) Alert() (AlertPanel, bool) {
	if !m.hasAlert {
		return nil, false
	}
	return alertPanel{memory: m}, true
}

// mutate runs apply under the lock and, if it reports a change, bumps
// the revision and notifies subscribers after releasing the lock.
func (m *Memory) mutate(kind ChangeKind, category bin.Category, apply func() bool) {
	m.mutex.Lock()
	if !apply() {
		m.mutex.Unlock()
		return
	}
	m.revision++
	change := Change{Revision: m.revision, Kind: kind, Category: category}
	subscribers := m.subscribers
	m.mutex.Unlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber <- change:
		default:
		}
	}
}

type categoryPanel struct {
	memory *Memory
	index  int
}

func (p categoryPanel) SetDistanceText(text string) {
	state := &p.memory.categories[p.index]
	p.memory.mutate(ChangeCategory, state.Category, func() bool {
		if state.DistanceText == text {
			return false
		}
		state.DistanceText = text
		return true
	})
}

func (p categoryPanel) SetFull(full bool) {
	state := &p.memory.categories[p.index]
	p.memory.mutate(ChangeCategory, state.Category, func() bool {
		if state.Full == full {
			return false
		}
		state.Full = full
		return true
	})
}

type servoReadout struct{ memory *Memory }

func (r servoReadout) SetText(text string) {
	r.memory.mutate(ChangeServo, "", func() bool {
		if r.memory.servo.Text == text {
			return false
		}
		r.memory.servo.Text = text
		return true
	})
}

func (r servoReadout) SetPosition(position ServoPosition) {
	r.memory.mutate(ChangeServo, "", func() bool {
		if r.memory.servo.Position == position {
			return false
		}
		r.memory.servo.Position = position
		return true
	})
}

type stepperReadout struct{ memory *Memory }

func (r stepperReadout) SetText(text string) {
	r.memory.mutate(ChangeStepper, "", func() bool {
		if r.memory.stepper == text {
			return false
		}
		r.memory.stepper = text
		return true
	})
}

type alertPanel struct{ memory *Memory }

func (p alertPanel) SetMessage(message string) {
	p.memory.mutate(ChangeAlert, "", func() bool {
		if p.memory.alert.Message == message {
			return false
		}
		p.memory.alert.Message = message
		return true
	})
}

func (p alertPanel) SetOpen(open bool) {
	p.memory.mutate(ChangeAlert, "", func() bool {
		if p.memory.alert.Open == open && p.memory.alert.Hidden == !open {
			return false
		}
		p.memory.alert.Open = open
		p.memory.alert.Hidden = !open
		return true
	})
}

func (p alertPanel) Open() bool {
	p.memory.mutex.Lock()
	defer p.memory.mutex.Unlock()
	return p.memory.alert.Open
}
