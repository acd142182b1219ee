// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the dashboard palette. Colors are ANSI 256 codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Compartment cards.
	CardReady lipgloss.Color
	CardFull  lipgloss.Color

	// Servo indicator.
	ServoOpen    lipgloss.Color
	ServoClosed  lipgloss.Color
	ServoUnknown lipgloss.Color

	// Connection indicator.
	Connected    lipgloss.Color
	Reconnecting lipgloss.Color

	// Alert modal.
	AlertBorder     lipgloss.Color
	AlertBackground lipgloss.Color
	AlertTitle      lipgloss.Color
	ButtonFocused   lipgloss.Color

	// Status bar tint for forwarded warnings and errors.
	StatusWarn  lipgloss.Color
	StatusError lipgloss.Color
}

// DefaultTheme targets 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	CardReady: lipgloss.Color("114"), // green
	CardFull:  lipgloss.Color("196"), // red

	ServoOpen:    lipgloss.Color("75"),  // blue
	ServoClosed:  lipgloss.Color("245"), // gray
	ServoUnknown: lipgloss.Color("240"),

	Connected:    lipgloss.Color("114"),
	Reconnecting: lipgloss.Color("220"), // amber

	AlertBorder:     lipgloss.Color("196"),
	AlertBackground: lipgloss.Color("52"), // dark red
	AlertTitle:      lipgloss.Color("231"),
	ButtonFocused:   lipgloss.Color("208"),

	StatusWarn:  lipgloss.Color("220"),
	StatusError: lipgloss.Color("196"),
}

// NewRenderer returns a lipgloss renderer pinned to the 256-color
// profile, so output does not depend on terminal detection.
func NewRenderer(output io.Writer) *lipgloss.Renderer {
	return lipgloss.NewRenderer(output, termenv.WithProfile(termenv.ANSI256))
}
