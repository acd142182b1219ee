// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bin

// Category identifies one sorting compartment. The vocabulary is
// configurable; keys outside the configured set are ignored.
type Category string

// Compartments of the stock three-way bin.
const (
	CategoryCans     Category = "cans"
	CategoryPapers   Category = "papers"
	CategoryPlastics Category = "plastics"
)

// DefaultCategories returns the stock compartments in display order.
func DefaultCategories() []Category {
	return []Category{CategoryCans, CategoryPapers, CategoryPlastics}
}

// Reserved top-level keys. A configured category must not use either.
const (
	KeyGlobal = "global"
	KeyAlert  = "alert"
)

// AlertKindWrong is the alert type emitted when an item is detected
// in a compartment that does not match its classification. It is the
// only kind that opens the alert modal.
const AlertKindWrong = "wrong"

// CategoryReading is a partial sensor update for one compartment.
type CategoryReading struct {
	// Distance is the ultrasonic range to the fill surface in
	// centimeters. Null means the sensor has no reading.
	Distance Field[float64] `json:"distance,omitzero"`

	// Status is free text from the controller ("Ready",
	// "FULL (change >= 1cm)"). A case-insensitive "FULL" substring
	// marks the compartment full.
	Status Field[string] `json:"status,omitzero"`
}

// GlobalStatus is a partial update for the actuators shared by every
// compartment.
type GlobalStatus struct {
	// Servo describes the lid servo, typically "Open" or "Closed".
	Servo Field[string] `json:"servo,omitzero"`

	// Stepper describes the carousel stepper position, for example
	// "Papers (2800 Steps)". Displayed verbatim.
	Stepper Field[string] `json:"stepper,omitzero"`
}

// AlertEvent asks the display to raise a misplaced-item alert.
type AlertEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// Snapshot is the producer-side shape of a full message. Producers
// that only send some facets leave the rest nil.
type Snapshot struct {
	Categories map[Category]CategoryReading
	Global     *GlobalStatus
	Alert      *AlertEvent
}
