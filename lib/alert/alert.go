// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package alert drives the misplaced-item modal.
//
// The modal has two states, closed and open, and starts closed.
// [Controller.Show] opens it (or refreshes the message if it is
// already open); [Controller.Hide] closes it. Neither call fails: a
// surface without an alert panel logs a warning and carries on.
package alert

import (
	"fmt"
	"log/slog"

	"github.com/smartdusbin/binmon/lib/surface"
)

// DefaultMessage is shown when an alert arrives without text.
const DefaultMessage = "Waste went into the wrong compartment."

// Controller opens and closes the alert panel of a surface.
type Controller struct {
	surface        surface.Surface
	defaultMessage string
	logger         *slog.Logger
}

// New creates a Controller. An empty defaultMessage selects
// [DefaultMessage]; a nil logger selects slog.Default().
func New(target surface.Surface, defaultMessage string, logger *slog.Logger) *Controller {
	if defaultMessage == "" {
		defaultMessage = DefaultMessage
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		surface:        target,
		defaultMessage: defaultMessage,
		logger:         logger,
	}
}

// Show displays message in the modal and opens it. Calling Show while
// the modal is open replaces the message and leaves it open.
func (c *Controller) Show(message string) {
	defer c.recoverPanic("show")

	panel, ok := c.surface.Alert()
	if !ok {
		c.logger.Warn("alert panel not available, dropping alert", "message", message)
		return
	}
	if message == "" {
		message = c.defaultMessage
	}
	panel.SetMessage(message)
	panel.SetOpen(true)
}

// Hide closes the modal. No-op when it is already closed.
func (c *Controller) Hide() {
	defer c.recoverPanic("hide")

	panel, ok := c.surface.Alert()
	if !ok || !panel.Open() {
		return
	}
	panel.SetOpen(false)
}

// IsOpen reports whether the modal is showing.
func (c *Controller) IsOpen() bool {
	panel, ok := c.surface.Alert()
	return ok && panel.Open()
}

func (c *Controller) recoverPanic(operation string) {
	if recovered := recover(); recovered != nil {
		c.logger.Warn("alert update failed",
			"operation", operation,
			"error", fmt.Sprint(recovered),
		)
	}
}
