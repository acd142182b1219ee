// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binui

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smartdusbin/binmon/lib/clock"
	"github.com/smartdusbin/binmon/lib/stream"
	"github.com/smartdusbin/binmon/lib/surface"
	"github.com/smartdusbin/binmon/lib/tui"
)

// TestAlertMessage is the sample shown by the test-alert key.
const TestAlertMessage = "Sample alert: item was not detected correctly."

// AlertController opens and dismisses the alert modal.
type AlertController interface {
	Show(message string)
	Hide()
	IsOpen() bool
}

// ConnectionSource reports the telemetry connection state.
type ConnectionSource interface {
	Status() stream.Status
	Subscribe() <-chan stream.Status
}

// Config wires a Model.
type Config struct {
	Surface    *surface.Memory
	Alerts     AlertController
	Connection ConnectionSource

	// Endpoint is shown in the header.
	Endpoint string

	// Clock drives the "last update" age. Defaults to clock.Real().
	Clock clock.Clock
	Theme tui.Theme
	Keys  KeyMap

	// Renderer styles output. Defaults to tui.NewRenderer(os.Stdout).
	Renderer *lipgloss.Renderer
}

// surfaceChangedMsg signals that the surface has a new revision.
type surfaceChangedMsg struct{}

// connectionMsg delivers a connection status update.
type connectionMsg struct {
	status stream.Status
}

// ageTickMsg refreshes relative timestamps.
type ageTickMsg struct{}

const ageTickInterval = time.Second

// Model is the bubbletea model for the dashboard.
type Model struct {
	surface    *surface.Memory
	alerts     AlertController
	connection ConnectionSource
	endpoint   string
	clock      clock.Clock
	theme      tui.Theme
	keys       KeyMap
	renderer   *lipgloss.Renderer

	changes  <-chan surface.Change
	statuses <-chan stream.Status

	snapshot surface.Snapshot
	status   stream.Status

	width  int
	height int

	logSummary  string
	logLevel    slog.Level
	logSequence int
}

// NewModel creates a dashboard model. Subscriptions are taken here so
// no change between construction and Init is missed.
func NewModel(config Config) Model {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Theme == (tui.Theme{}) {
		config.Theme = tui.DefaultTheme
	}
	if config.Keys.Quit.Keys() == nil {
		config.Keys = DefaultKeyMap
	}
	if config.Renderer == nil {
		config.Renderer = tui.NewRenderer(os.Stdout)
	}

	model := Model{
		surface:    config.Surface,
		alerts:     config.Alerts,
		connection: config.Connection,
		endpoint:   config.Endpoint,
		clock:      config.Clock,
		theme:      config.Theme,
		keys:       config.Keys,
		renderer:   config.Renderer,
		changes:    config.Surface.Subscribe(),
		snapshot:   config.Surface.Snapshot(),
		width:      80,
		height:     24,
	}
	if config.Connection != nil {
		model.statuses = config.Connection.Subscribe()
		model.status = config.Connection.Status()
	}
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	commands := []tea.Cmd{listenForChange(model.changes), scheduleAgeTick()}
	if model.statuses != nil {
		commands = append(commands, listenForStatus(model.statuses))
	}
	return tea.Batch(commands...)
}

func listenForChange(channel <-chan surface.Change) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-channel; !ok {
			return nil
		}
		return surfaceChangedMsg{}
	}
}

func listenForStatus(channel <-chan stream.Status) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-channel
		if !ok {
			return nil
		}
		return connectionMsg{status: status}
	}
}

func scheduleAgeTick() tea.Cmd {
	return tea.Tick(ageTickInterval, func(time.Time) tea.Msg { return ageTickMsg{} })
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.MouseMsg:
		return model.handleMouse(message)

	case surfaceChangedMsg:
		model.snapshot = model.surface.Snapshot()
		return model, listenForChange(model.changes)

	case connectionMsg:
		model.status = message.status
		return model, listenForStatus(model.statuses)

	case ageTickMsg:
		return model, scheduleAgeTick()

	case logRecordMsg:
		model.logSequence++
		model.logSummary = message.Summary
		model.logLevel = message.Level
		sequence := model.logSequence
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{sequence: sequence}
		})

	case logRecordFadeMsg:
		if message.sequence == model.logSequence {
			model.logSummary = ""
		}
		return model, nil
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.TestAlert):
		model.alerts.Show(TestAlertMessage)
	case key.Matches(message, model.keys.Dismiss), key.Matches(message, model.keys.Acknowledge):
		model.alerts.Hide()
	default:
		return model, nil
	}
	model.snapshot = model.surface.Snapshot()
	return model, nil
}

// handleMouse dismisses the alert on a left click on its OK or close
// button, or anywhere outside the modal box.
func (model Model) handleMouse(message tea.MouseMsg) (tea.Model, tea.Cmd) {
	if message.Action != tea.MouseActionPress || message.Button != tea.MouseButtonLeft {
		return model, nil
	}
	if !model.alerts.IsOpen() {
		return model, nil
	}
	layout := model.alertModal().Render(model.width, model.height)
	outside := !layout.Box.Contains(message.X, message.Y)
	if outside || layout.Button.Contains(message.X, message.Y) || layout.Close.Contains(message.X, message.Y) {
		model.alerts.Hide()
		model.snapshot = model.surface.Snapshot()
	}
	return model, nil
}

// Snapshot returns the display state the model last rendered from.
func (model Model) Snapshot() surface.Snapshot {
	return model.snapshot
}
