// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockdevice

import (
	"strings"
	"testing"
	"time"

	"github.com/smartdusbin/binmon/lib/schema/bin"
)

func testConfig() Config {
	return Config{
		Addr:            ":0",
		Interval:        time.Second,
		AlertEvery:      3,
		FullThresholdCM: 1.0,
		BaselineCM:      30,
		Seed:            42,
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("BINMON_MOCK_ADDR", "127.0.0.1:9000")
	t.Setenv("BINMON_MOCK_INTERVAL", "250ms")
	t.Setenv("BINMON_MOCK_ALERT_EVERY", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.Interval != 250*time.Millisecond || cfg.AlertEvery != 0 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.FullThresholdCM != 1.0 || cfg.BaselineCM != 30 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("BINMON_MOCK_INTERVAL", "0s")
	if _, err := LoadConfig(); err == nil {
		t.Error("zero interval accepted")
	}
	t.Setenv("BINMON_MOCK_INTERVAL", "soon")
	if _, err := LoadConfig(); err == nil {
		t.Error("unparseable interval accepted")
	}
}

func TestInitialSnapshot(t *testing.T) {
	device := NewDevice(testConfig())
	snapshot := device.Snapshot()

	for _, category := range bin.DefaultCategories() {
		reading := snapshot.Categories[category]
		if distance, ok := reading.Distance.Get(); !ok || distance != 30 {
			t.Errorf("%s distance = %v (ok=%v), want baseline", category, distance, ok)
		}
		if status, _ := reading.Status.Get(); status != StatusReady {
			t.Errorf("%s status = %q", category, status)
		}
	}
	if servo, _ := snapshot.Global.Servo.Get(); servo != ServoClosed {
		t.Errorf("servo = %q", servo)
	}
	if stepper, _ := snapshot.Global.Stepper.Get(); stepper != "Plastics (0 Steps)" {
		t.Errorf("stepper = %q", stepper)
	}
	if snapshot.Alert != nil {
		t.Error("initial snapshot carries an alert")
	}
}

// Status is FULL exactly when a valid reading is at least the
// threshold below baseline.
func TestFullStatusFollowsThreshold(t *testing.T) {
	device := NewDevice(testConfig())
	sawFull := false
	for range 200 {
		snapshot := device.Step()
		for category, reading := range snapshot.Categories {
			status, _ := reading.Status.Get()
			distance, valid := reading.Distance.Get()
			wantFull := valid && distance <= 29
			if isFull := strings.HasPrefix(status, "FULL"); isFull != wantFull {
				t.Fatalf("%s: distance %v (valid=%v) status %q", category, distance, valid, status)
			}
			if wantFull {
				sawFull = true
				if status != "FULL (change >= 1cm)" {
					t.Errorf("full status = %q", status)
				}
			}
		}
	}
	if !sawFull {
		t.Error("no compartment became full in 200 cycles")
	}
}

// A full target compartment keeps the lid shut; otherwise the lid
// opens for the sorted item and closes on the following cycle.
func TestServoFollowsTargetCompartment(t *testing.T) {
	device := NewDevice(testConfig())
	for range 100 {
		for _, state := range device.compartments {
			state.fill = 5
		}
		device.servo = ServoClosed

		snapshot := device.Step()
		stepper, _ := snapshot.Global.Stepper.Get()
		servo, _ := snapshot.Global.Servo.Get()

		var target bin.Category
		for _, category := range bin.DefaultCategories() {
			if stepper == StepperPosition(category) {
				target = category
			}
		}
		if target == "" {
			t.Fatalf("stepper %q names no compartment", stepper)
		}
		status, _ := snapshot.Categories[target].Status.Get()
		wantServo := ServoOpen
		if strings.Contains(status, "FULL") {
			wantServo = ServoClosed
		}
		if servo != wantServo {
			t.Fatalf("target %s status %q: servo = %q, want %q", target, status, servo, wantServo)
		}

		if servo == ServoOpen {
			next := device.Step()
			if servo, _ := next.Global.Servo.Get(); servo != ServoClosed {
				t.Fatalf("lid stayed open for a second cycle")
			}
			if stepper, _ := next.Global.Stepper.Get(); stepper != StepperPosition(bin.CategoryPlastics) {
				t.Fatalf("stepper did not return home: %q", stepper)
			}
		}
	}
}

func TestAlertCadence(t *testing.T) {
	device := NewDevice(testConfig())
	for cycle := 1; cycle <= 9; cycle++ {
		snapshot := device.Step()
		wantAlert := cycle%3 == 0
		if (snapshot.Alert != nil) != wantAlert {
			t.Fatalf("cycle %d: alert = %+v, want present=%v", cycle, snapshot.Alert, wantAlert)
		}
		if snapshot.Alert != nil && snapshot.Alert.Type != bin.AlertKindWrong {
			t.Errorf("alert type = %q", snapshot.Alert.Type)
		}
	}

	quiet := testConfig()
	quiet.AlertEvery = 0
	device = NewDevice(quiet)
	for range 10 {
		if device.Step().Alert != nil {
			t.Fatal("alert produced with cadence 0")
		}
	}
}

func TestSensorTimeoutEncodesNull(t *testing.T) {
	device := NewDevice(testConfig())
	device.compartments[bin.CategoryPapers].distance = sensorTimeoutCM

	reading := device.Snapshot().Categories[bin.CategoryPapers]
	if !reading.Distance.Set || !reading.Distance.Null {
		t.Errorf("timed-out distance = %+v, want explicit null", reading.Distance)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	first, second := NewDevice(testConfig()), NewDevice(testConfig())
	for cycle := range 20 {
		a, _ := bin.Encode(first.Step())
		b, _ := bin.Encode(second.Step())
		if string(a) != string(b) {
			t.Fatalf("cycle %d diverged:\n%s\n%s", cycle, a, b)
		}
	}
}
