// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package projector maps bin readings onto a [surface.Surface].
//
// Projection is idempotent and partial: fields absent from a reading
// leave the displayed value alone, and applying the same reading twice
// produces the same display. Missing render targets and failures
// inside the surface are logged and swallowed so one bad update never
// stops the stream.
package projector

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/smartdusbin/binmon/lib/schema/bin"
	"github.com/smartdusbin/binmon/lib/surface"
)

// Options controls how values are rendered. Zero fields take the
// defaults from [DefaultOptions].
type Options struct {
	// UnitLabel follows every distance, separated by a space.
	UnitLabel string

	// Placeholder replaces unknown or empty values.
	Placeholder string

	// FullMarker is matched case-insensitively against status text.
	FullMarker string

	// OpenMarker and ClosedMarker are matched case-insensitively
	// against servo text. OpenMarker is checked first.
	OpenMarker   string
	ClosedMarker string
}

// DefaultOptions returns the stock rendering.
func DefaultOptions() Options {
	return Options{
		UnitLabel:    "cm",
		Placeholder:  surface.Placeholder,
		FullMarker:   "FULL",
		OpenMarker:   "open",
		ClosedMarker: "closed",
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.UnitLabel == "" {
		o.UnitLabel = defaults.UnitLabel
	}
	if o.Placeholder == "" {
		o.Placeholder = defaults.Placeholder
	}
	if o.FullMarker == "" {
		o.FullMarker = defaults.FullMarker
	}
	if o.OpenMarker == "" {
		o.OpenMarker = defaults.OpenMarker
	}
	if o.ClosedMarker == "" {
		o.ClosedMarker = defaults.ClosedMarker
	}
	return o
}

// Projector applies readings to a surface. Safe for concurrent use if
// the surface is.
type Projector struct {
	surface surface.Surface
	options Options
	logger  *slog.Logger
}

// New creates a Projector writing to target. A nil logger selects
// slog.Default().
func New(target surface.Surface, options Options, logger *slog.Logger) *Projector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projector{
		surface: target,
		options: options.withDefaults(),
		logger:  logger,
	}
}

// ApplyCategoryReading updates the card for category. A category with
// no card is ignored. An empty status carries no information and is
// ignored like an absent one.
func (p *Projector) ApplyCategoryReading(category bin.Category, reading bin.CategoryReading) {
	defer p.recoverPanic("category", string(category))

	panel, ok := p.surface.Category(category)
	if !ok {
		return
	}
	if reading.Distance.Present() {
		panel.SetDistanceText(p.FormatDistance(reading.Distance))
	}
	if status, ok := reading.Status.Get(); ok && status != "" {
		panel.SetFull(p.IsFull(status))
	}
}

// ApplyGlobalStatus updates the servo and stepper readouts. A present
// but empty or null value renders the placeholder.
func (p *Projector) ApplyGlobalStatus(status bin.GlobalStatus) {
	defer p.recoverPanic("global", "")

	if status.Servo.Present() {
		if readout, ok := p.surface.Servo(); ok {
			text, _ := status.Servo.Get()
			readout.SetText(p.textOrPlaceholder(text))
			readout.SetPosition(p.ClassifyServo(text))
		}
	}
	if status.Stepper.Present() {
		if readout, ok := p.surface.Stepper(); ok {
			text, _ := status.Stepper.Get()
			readout.SetText(p.textOrPlaceholder(text))
		}
	}
}

// FormatDistance renders a distance field: the shortest exact decimal
// followed by the unit label, or the placeholder for null.
func (p *Projector) FormatDistance(distance bin.Field[float64]) string {
	value, ok := distance.Get()
	if !ok {
		return p.options.Placeholder
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + p.options.UnitLabel
}

// IsFull reports whether status text contains the full marker,
// ignoring case.
func (p *Projector) IsFull(status string) bool {
	return containsFold(status, p.options.FullMarker)
}

// ClassifyServo maps servo text to a position. Text matching neither
// marker yields [surface.PositionUnknown].
func (p *Projector) ClassifyServo(text string) surface.ServoPosition {
	switch {
	case containsFold(text, p.options.OpenMarker):
		return surface.PositionOpen
	case containsFold(text, p.options.ClosedMarker):
		return surface.PositionClosed
	default:
		return surface.PositionUnknown
	}
}

func (p *Projector) textOrPlaceholder(text string) string {
	if text == "" {
		return p.options.Placeholder
	}
	return text
}

func (p *Projector) recoverPanic(target, category string) {
	if recovered := recover(); recovered != nil {
		p.logger.Warn("projection failed",
			"target", target,
			"category", category,
			"error", fmt.Sprint(recovered),
		)
	}
}

func containsFold(text, marker string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(marker))
}
