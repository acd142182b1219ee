// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/smartdusbin/binmon/lib/schema/bin"
	"github.com/smartdusbin/binmon/lib/stream"
	"github.com/smartdusbin/binmon/lib/surface"
	"github.com/smartdusbin/binmon/lib/tui"
)

const (
	cardWidth  = 22
	cardHeight = 5
	alertTitle = "Wrong compartment"
)

// View implements tea.Model.
func (model Model) View() string {
	sections := []string{
		model.renderHeader(),
		"",
		model.renderCards(),
		"",
		model.renderGlobal(),
	}
	body := strings.Join(sections, "\n")

	// Pin the status bar to the last row.
	lines := strings.Split(body, "\n")
	for len(lines) < model.height-1 {
		lines = append(lines, "")
	}
	lines = append(lines, model.renderStatusBar())
	view := strings.Join(lines, "\n")

	if model.snapshot.Alert.Open {
		layout := model.alertModal().Render(model.width, model.height)
		view = tui.SpliceOverlay(view, layout.Lines, layout.Box.X, layout.Box.Y)
	}
	return view
}

func (model Model) alertModal() tui.Modal {
	return tui.Modal{
		Title:    alertTitle,
		Message:  model.snapshot.Alert.Message,
		Button:   "OK",
		Theme:    model.theme,
		Renderer: model.renderer,
	}
}

func (model Model) renderHeader() string {
	title := model.renderer.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).Render("Smart Bin Monitor")
	faint := model.renderer.NewStyle().Foreground(model.theme.FaintText)

	parts := []string{title, model.renderConnection()}
	if model.endpoint != "" {
		parts = append(parts, faint.Render(model.endpoint))
	}
	if !model.status.LastMessageAt.IsZero() {
		parts = append(parts, faint.Render("updated "+formatAge(model.clock.Now().Sub(model.status.LastMessageAt))+" ago"))
	}
	return strings.Join(parts, "  ")
}

func (model Model) renderConnection() string {
	status := model.status
	style := model.renderer.NewStyle().Foreground(model.theme.Reconnecting)
	switch status.State {
	case stream.StateConnected:
		return style.Foreground(model.theme.Connected).Render("● connected")
	case stream.StateConnecting:
		return style.Render("◌ connecting")
	case stream.StateWaiting:
		text := "○ disconnected"
		if wait := status.RetryAt.Sub(model.clock.Now()); wait > 0 {
			text += ", retry in " + formatAge(wait)
		}
		return style.Render(text)
	default:
		return model.renderer.NewStyle().Foreground(model.theme.FaintText).Render("○ " + status.State.String())
	}
}

func (model Model) renderCards() string {
	cards := make([]string, 0, len(model.snapshot.Categories))
	for _, state := range model.snapshot.Categories {
		cards = append(cards, model.renderCard(state))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (model Model) renderCard(state surface.CategoryState) string {
	accent := model.theme.CardReady
	badge := "OK"
	if state.Full {
		accent = model.theme.CardFull
		badge = "FULL"
	}

	name := model.renderer.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).Render(categoryTitle(state.Category))
	distance := model.renderer.NewStyle().Bold(true).Foreground(model.theme.NormalText).Render(state.DistanceText)
	label := model.renderer.NewStyle().Foreground(model.theme.FaintText).Render("distance")
	badgeText := model.renderer.NewStyle().Bold(true).Foreground(accent).Render(badge)

	content := strings.Join([]string{name, label + " " + distance, "", badgeText}, "\n")
	return model.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(cardWidth).
		Height(cardHeight-1).
		Padding(0, 1).
		MarginRight(1).
		Render(content)
}

func (model Model) renderGlobal() string {
	label := model.renderer.NewStyle().Foreground(model.theme.FaintText)
	var parts []string
	if model.snapshot.HasServo {
		servo := model.snapshot.Servo
		color := model.theme.ServoUnknown
		switch servo.Position {
		case surface.PositionOpen:
			color = model.theme.ServoOpen
		case surface.PositionClosed:
			color = model.theme.ServoClosed
		}
		value := model.renderer.NewStyle().Bold(true).Foreground(color).Render(servo.Text)
		parts = append(parts, label.Render("Servo ")+value)
	}
	if model.snapshot.HasStepper {
		value := model.renderer.NewStyle().Foreground(model.theme.NormalText).Render(model.snapshot.Stepper)
		parts = append(parts, label.Render("Stepper ")+value)
	}
	return strings.Join(parts, "    ")
}

func (model Model) renderStatusBar() string {
	if model.logSummary != "" {
		color := model.theme.StatusWarn
		if model.logLevel >= slog.LevelError {
			color = model.theme.StatusError
		}
		return model.renderer.NewStyle().Foreground(color).Render(ansi.Truncate(model.logSummary, max(model.width, 1), "…"))
	}

	bindings := []struct{ key, help string }{
		{model.keys.TestAlert.Help().Key, model.keys.TestAlert.Help().Desc},
		{model.keys.Quit.Help().Key, model.keys.Quit.Help().Desc},
	}
	if model.snapshot.Alert.Open {
		bindings = append([]struct{ key, help string }{
			{model.keys.Acknowledge.Help().Key, model.keys.Acknowledge.Help().Desc},
			{model.keys.Dismiss.Help().Key, model.keys.Dismiss.Help().Desc},
		}, bindings...)
	}
	var parts []string
	for _, binding := range bindings {
		parts = append(parts, binding.key+" "+binding.help)
	}
	help := strings.Join(parts, " • ")
	if model.status.Dropped > 0 {
		help += fmt.Sprintf("   %d malformed message(s) dropped", model.status.Dropped)
	}
	return model.renderer.NewStyle().Foreground(model.theme.HelpText).Render(help)
}

func categoryTitle(category bin.Category) string {
	name := string(category)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// formatAge renders a duration at whole-second precision ("4s", "2m5s").
func formatAge(duration time.Duration) string {
	if duration < time.Second {
		return "0s"
	}
	return duration.Truncate(time.Second).String()
}
