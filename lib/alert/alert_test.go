// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package alert

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/smartdusbin/binmon/lib/schema/bin"
	"github.com/smartdusbin/binmon/lib/surface"
)

func newTestController(options ...surface.Option) (*Controller, *surface.Memory) {
	memory := surface.NewMemory(bin.DefaultCategories(), options...)
	return New(memory, "", slog.New(slog.NewTextHandler(io.Discard, nil))), memory
}

// Show A then Show B leaves one open modal showing B.
func TestShowRefreshesMessage(t *testing.T) {
	controller, memory := newTestController()

	controller.Show("Can in the paper slot")
	controller.Show("Bottle in the can slot")

	state := memory.Snapshot().Alert
	if !state.Open || state.Hidden {
		t.Errorf("alert = %+v, want open and visible", state)
	}
	if state.Message != "Bottle in the can slot" {
		t.Errorf("message = %q, want the second message", state.Message)
	}
}

func TestShowEmptyMessageUsesDefault(t *testing.T) {
	controller, memory := newTestController()
	controller.Show("")
	if got := memory.Snapshot().Alert.Message; got != DefaultMessage {
		t.Errorf("message = %q, want %q", got, DefaultMessage)
	}

	custom := New(memory, "Salah tempat", slog.New(slog.NewTextHandler(io.Discard, nil)))
	custom.Show("")
	if got := memory.Snapshot().Alert.Message; got != "Salah tempat" {
		t.Errorf("message = %q, want configured default", got)
	}
}

func TestHideClosesAndIsIdempotent(t *testing.T) {
	controller, memory := newTestController()

	controller.Hide()
	if revision := memory.Revision(); revision != 0 {
		t.Errorf("Hide on a closed modal bumped revision to %d", revision)
	}

	controller.Show("x")
	if !controller.IsOpen() {
		t.Fatal("IsOpen() = false after Show")
	}
	controller.Hide()
	controller.Hide()

	state := memory.Snapshot().Alert
	if state.Open || !state.Hidden {
		t.Errorf("alert = %+v, want closed and hidden", state)
	}
	if controller.IsOpen() {
		t.Error("IsOpen() = true after Hide")
	}
}

func TestMissingPanelWarnsAndContinues(t *testing.T) {
	var logs bytes.Buffer
	memory := surface.NewMemory(bin.DefaultCategories(), surface.WithoutAlertPanel())
	controller := New(memory, "", slog.New(slog.NewTextHandler(&logs, nil)))

	controller.Show("lost")
	controller.Hide()

	if controller.IsOpen() {
		t.Error("IsOpen() = true without a panel")
	}
	if !strings.Contains(logs.String(), "alert panel not available") {
		t.Errorf("expected a warning, got logs %q", logs.String())
	}
}

type explodingAlertSurface struct{ surface.Surface }

func (explodingAlertSurface) Alert() (surface.AlertPanel, bool) {
	panic("modal detached")
}

func TestPanelFailureIsRecovered(t *testing.T) {
	var logs bytes.Buffer
	memory := surface.NewMemory(bin.DefaultCategories())
	controller := New(explodingAlertSurface{memory}, "", slog.New(slog.NewTextHandler(&logs, nil)))

	controller.Show("Can in the paper slot")
	controller.Hide()

	if !strings.Contains(logs.String(), "alert update failed") {
		t.Errorf("expected the failure to be logged, got %q", logs.String())
	}
}

func TestNilLoggerUsesDefault(t *testing.T) {
	memory := surface.NewMemory(bin.DefaultCategories(), surface.WithoutAlertPanel())
	controller := New(memory, "", nil)
	controller.Show("lost")

	exploding := New(explodingAlertSurface{memory}, "", nil)
	exploding.Show("lost")
}
