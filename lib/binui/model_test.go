// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/smartdusbin/binmon/lib/alert"
	"github.com/smartdusbin/binmon/lib/clock"
	"github.com/smartdusbin/binmon/lib/projector"
	"github.com/smartdusbin/binmon/lib/schema/bin"
	"github.com/smartdusbin/binmon/lib/stream"
	"github.com/smartdusbin/binmon/lib/surface"
	"github.com/smartdusbin/binmon/lib/testutil"
	"github.com/smartdusbin/binmon/lib/tui"
)

var epoch = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

type fakeConnection struct {
	status  stream.Status
	updates chan stream.Status
}

func (f *fakeConnection) Status() stream.Status           { return f.status }
func (f *fakeConnection) Subscribe() <-chan stream.Status { return f.updates }

type testDashboard struct {
	model      Model
	memory     *surface.Memory
	projector  *projector.Projector
	alerts     *alert.Controller
	connection *fakeConnection
	clock      *clock.FakeClock
}

func newTestDashboard(t *testing.T) *testDashboard {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	memory := surface.NewMemory(bin.DefaultCategories())
	alerts := alert.New(memory, "", logger)
	connection := &fakeConnection{
		status:  stream.Status{State: stream.StateConnected, Generation: 1},
		updates: make(chan stream.Status, 1),
	}
	fakeClock := clock.Fake(epoch)
	model := NewModel(Config{
		Surface:    memory,
		Alerts:     alerts,
		Connection: connection,
		Endpoint:   "ws://bin.test:8000",
		Clock:      fakeClock,
		Renderer:   tui.NewRenderer(io.Discard),
	})
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return &testDashboard{
		model:      updated.(Model),
		memory:     memory,
		projector:  projector.New(memory, projector.Options{}, logger),
		alerts:     alerts,
		connection: connection,
		clock:      fakeClock,
	}
}

func (d *testDashboard) update(message tea.Msg) tea.Cmd {
	updated, command := d.model.Update(message)
	d.model = updated.(Model)
	return command
}

func (d *testDashboard) plainView() string {
	return ansi.Strip(d.model.View())
}

func keyRunes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestViewRendersCardsAndGlobals(t *testing.T) {
	dashboard := newTestDashboard(t)
	dashboard.projector.ApplyCategoryReading(bin.CategoryCans, bin.CategoryReading{Distance: bin.Some(15.0), Status: bin.Some("FULL")})
	dashboard.projector.ApplyCategoryReading(bin.CategoryPapers, bin.CategoryReading{Distance: bin.Some(31.2), Status: bin.Some("Ready")})
	dashboard.projector.ApplyGlobalStatus(bin.GlobalStatus{Servo: bin.Some("Open"), Stepper: bin.Some("Cans (0 Steps)")})
	dashboard.update(surfaceChangedMsg{})

	view := dashboard.plainView()
	for _, want := range []string{
		"Smart Bin Monitor", "● connected", "ws://bin.test:8000",
		"Cans", "Papers", "Plastics",
		"15 cm", "31.2 cm", "FULL", "OK",
		"Servo Open", "Stepper Cans (0 Steps)",
		"t test alert",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if lines := strings.Split(view, "\n"); len(lines) != 30 {
		t.Errorf("view has %d lines, want the window height 30", len(lines))
	}
}

// The model picks up surface changes through its subscription.
func TestSurfaceSubscriptionDeliversChanges(t *testing.T) {
	dashboard := newTestDashboard(t)
	command := listenForChange(dashboard.model.changes)

	dashboard.projector.ApplyCategoryReading(bin.CategoryPlastics, bin.CategoryReading{Distance: bin.Some(4.0)})
	messages := make(chan tea.Msg, 1)
	go func() { messages <- command() }()
	message := testutil.RequireReceive(t, messages, 5*time.Second, "surface change message")
	if _, ok := message.(surfaceChangedMsg); !ok {
		t.Fatalf("message = %T, want surfaceChangedMsg", message)
	}
	dashboard.update(message)
	if state, _ := dashboard.model.Snapshot().Category(bin.CategoryPlastics); state.DistanceText != "4 cm" {
		t.Errorf("plastics = %+v", state)
	}
}

func TestConnectionIndicator(t *testing.T) {
	dashboard := newTestDashboard(t)
	dashboard.update(connectionMsg{status: stream.Status{
		State:     stream.StateWaiting,
		RetryAt:   epoch.Add(4 * time.Second),
		LastError: "EOF",
	}})
	if view := dashboard.plainView(); !strings.Contains(view, "disconnected, retry in 4s") {
		t.Errorf("view missing reconnect countdown:\n%s", view)
	}

	dashboard.update(connectionMsg{status: stream.Status{
		State:         stream.StateConnected,
		LastMessageAt: epoch.Add(-3 * time.Second),
		Dropped:       2,
	}})
	view := dashboard.plainView()
	if !strings.Contains(view, "updated 3s ago") {
		t.Errorf("view missing message age:\n%s", view)
	}
	if !strings.Contains(view, "2 malformed message(s) dropped") {
		t.Errorf("view missing dropped count:\n%s", view)
	}
}

func TestAlertModalOpensAndDismissesByKey(t *testing.T) {
	for _, dismiss := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyEnter}} {
		dashboard := newTestDashboard(t)
		dashboard.alerts.Show("Bottle in the cans compartment")
		dashboard.update(surfaceChangedMsg{})

		view := dashboard.plainView()
		if !strings.Contains(view, "Wrong compartment") || !strings.Contains(view, "Bottle in the cans") {
			t.Fatalf("modal not rendered:\n%s", view)
		}

		dashboard.update(dismiss)
		if dashboard.alerts.IsOpen() {
			t.Errorf("%s did not dismiss the alert", dismiss)
		}
		if strings.Contains(dashboard.plainView(), "Wrong compartment") {
			t.Errorf("modal still rendered after %s", dismiss)
		}
	}
}

func TestTestAlertKey(t *testing.T) {
	dashboard := newTestDashboard(t)
	dashboard.update(keyRunes("t"))
	snapshot := dashboard.memory.Snapshot()
	if !snapshot.Alert.Open || snapshot.Alert.Message != TestAlertMessage {
		t.Errorf("alert = %+v, want test alert open", snapshot.Alert)
	}
}

func TestMouseDismissal(t *testing.T) {
	click := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	dashboard := newTestDashboard(t)
	dashboard.alerts.Show("wrong slot")
	dashboard.update(surfaceChangedMsg{})
	layout := dashboard.model.alertModal().Render(100, 30)

	// Clicking inside the box away from the buttons keeps it open.
	dashboard.update(click(layout.Box.X+1, layout.Box.Y+2))
	if !dashboard.alerts.IsOpen() {
		t.Fatal("click inside the modal body dismissed it")
	}

	dashboard.update(click(layout.Button.X, layout.Button.Y))
	if dashboard.alerts.IsOpen() {
		t.Fatal("click on OK did not dismiss")
	}

	dashboard.alerts.Show("again")
	dashboard.update(click(layout.Close.X, layout.Close.Y))
	if dashboard.alerts.IsOpen() {
		t.Fatal("click on the close button did not dismiss")
	}

	dashboard.alerts.Show("backdrop")
	dashboard.update(click(0, 0))
	if dashboard.alerts.IsOpen() {
		t.Fatal("backdrop click did not dismiss")
	}
}

func TestQuitKey(t *testing.T) {
	dashboard := newTestDashboard(t)
	command := dashboard.update(keyRunes("q"))
	if command == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := command().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestLogRecordFades(t *testing.T) {
	dashboard := newTestDashboard(t)
	dashboard.update(logRecordMsg{Summary: "telemetry stream disconnected (error=EOF)", Level: slog.LevelWarn})
	if !strings.Contains(dashboard.plainView(), "telemetry stream disconnected") {
		t.Fatal("log record not shown in the status bar")
	}

	// A fade for an older record leaves the newer one in place.
	dashboard.update(logRecordMsg{Summary: "second warning", Level: slog.LevelWarn})
	dashboard.update(logRecordFadeMsg{sequence: 1})
	if !strings.Contains(dashboard.plainView(), "second warning") {
		t.Fatal("stale fade cleared the newer record")
	}
	dashboard.update(logRecordFadeMsg{sequence: 2})
	if strings.Contains(dashboard.plainView(), "second warning") {
		t.Error("record not cleared by its fade")
	}
}

func TestLogHandlerSummary(t *testing.T) {
	handler := NewLogHandler(slog.LevelWarn)
	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled on a warn handler")
	}
	derived := handler.WithAttrs([]slog.Attr{slog.String("endpoint", "ws://x")}).(*LogHandler)

	record := slog.NewRecord(epoch, slog.LevelWarn, "telemetry stream disconnected", 0)
	record.AddAttrs(slog.Int("generation", 3))
	want := "telemetry stream disconnected (endpoint=ws://x, generation=3)"
	if got := derived.summarize(record); got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
	if derived.program != handler.program {
		t.Error("derived handler does not share the program pointer")
	}
	// No program yet: Handle drops silently.
	if err := derived.Handle(context.Background(), record); err != nil {
		t.Errorf("Handle without program: %v", err)
	}
}
