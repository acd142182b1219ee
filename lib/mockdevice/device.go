// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockdevice

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/smartdusbin/binmon/lib/schema/bin"
)

// Controller vocabulary.
const (
	StatusReady = "Ready"
	ServoOpen   = "Open"
	ServoClosed = "Closed"
)

const (
	// sensorTimeoutCM is what the ultrasonic driver reports when no
	// echo returns; anything at or above sensorRangeCM is not a
	// reading.
	sensorTimeoutCM = 999.0
	sensorRangeCM   = 500.0

	timeoutChance  = 0.02
	maxFillPerTick = 0.4
	noiseCM        = 0.1
	// emptyAtFillCM is how much fill accumulates before the
	// simulated crew empties the compartment.
	emptyAtFillCM = 8.0
)

// stepperSteps is the carousel offset for each compartment. The
// plastics slot sits at the home position.
var stepperSteps = map[bin.Category]int{
	bin.CategoryPlastics: 0,
	bin.CategoryCans:     1400,
	bin.CategoryPapers:   2800,
}

type compartment struct {
	fill     float64
	distance float64
	status   string
}

// Device is the simulated controller. Not safe for concurrent use;
// Run drives it from a single goroutine.
type Device struct {
	config       Config
	random       *rand.Rand
	categories   []bin.Category
	compartments map[bin.Category]*compartment
	servo        string
	stepper      string
	cycle        int
}

// NewDevice creates a calibrated, empty device.
func NewDevice(config Config) *Device {
	device := &Device{
		config:       config,
		random:       rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)),
		categories:   bin.DefaultCategories(),
		compartments: make(map[bin.Category]*compartment),
		servo:        ServoClosed,
		stepper:      StepperPosition(bin.CategoryPlastics),
	}
	for _, category := range device.categories {
		device.compartments[category] = &compartment{
			distance: config.BaselineCM,
			status:   StatusReady,
		}
	}
	return device
}

// StepperPosition names the carousel position for a compartment, as
// the controller reports it.
func StepperPosition(category bin.Category) string {
	name := string(category)
	return fmt.Sprintf("%s (%d Steps)", strings.ToUpper(name[:1])+name[1:], stepperSteps[category])
}

// FullStatus is the status text for a full compartment.
func (d *Device) FullStatus() string {
	return fmt.Sprintf("FULL (change >= %gcm)", d.config.FullThresholdCM)
}

// Snapshot returns the current state without an alert.
func (d *Device) Snapshot() bin.Snapshot {
	snapshot := bin.Snapshot{
		Categories: make(map[bin.Category]bin.CategoryReading, len(d.categories)),
		Global: &bin.GlobalStatus{
			Servo:   bin.Some(d.servo),
			Stepper: bin.Some(d.stepper),
		},
	}
	for _, category := range d.categories {
		state := d.compartments[category]
		distance := bin.Some(state.distance)
		if state.distance >= sensorRangeCM {
			distance = bin.Null[float64]()
		}
		snapshot.Categories[category] = bin.CategoryReading{
			Distance: distance,
			Status:   bin.Some(state.status),
		}
	}
	return snapshot
}

// Step runs one polling cycle and returns the snapshot to broadcast.
func (d *Device) Step() bin.Snapshot {
	d.cycle++
	for _, category := range d.categories {
		d.poll(d.compartments[category])
	}

	var sorted bin.Category
	if d.servo == ServoOpen {
		// The lid stays open for one cycle, then closes and the
		// carousel returns home.
		d.servo = ServoClosed
		d.stepper = StepperPosition(bin.CategoryPlastics)
	} else {
		sorted = d.categories[d.random.IntN(len(d.categories))]
		d.stepper = StepperPosition(sorted)
		if !strings.Contains(d.compartments[sorted].status, "FULL") {
			d.servo = ServoOpen
		}
	}

	snapshot := d.Snapshot()
	if d.config.AlertEvery > 0 && d.cycle%d.config.AlertEvery == 0 {
		snapshot.Alert = &bin.AlertEvent{
			Type:    bin.AlertKindWrong,
			Message: d.misplacedMessage(sorted),
		}
	}
	return snapshot
}

// poll takes one ultrasonic reading for a compartment.
func (d *Device) poll(state *compartment) {
	state.fill += d.random.Float64() * maxFillPerTick
	if state.fill > emptyAtFillCM {
		state.fill = 0
	}

	reading := sensorTimeoutCM
	if d.random.Float64() >= timeoutChance {
		noise := (d.random.Float64()*2 - 1) * noiseCM
		reading = math.Round((d.config.BaselineCM-state.fill+noise)*100) / 100
	}
	state.distance = reading

	state.status = StatusReady
	if reading < sensorRangeCM && reading <= d.config.BaselineCM-d.config.FullThresholdCM {
		state.status = d.FullStatus()
	}
}

func (d *Device) misplacedMessage(sorted bin.Category) string {
	if sorted == "" {
		return ""
	}
	actual := d.categories[(indexOf(d.categories, sorted)+1)%len(d.categories)]
	return fmt.Sprintf("Item for %s was dropped into %s.", actual, sorted)
}

func indexOf(categories []bin.Category, target bin.Category) int {
	for index, category := range categories {
		if category == target {
			return index
		}
	}
	return 0
}
