// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Alert modal geometry: 1 column border and 1 column padding per side,
// and title, blank, message, blank, button row inside the border.
const (
	modalChromeWidth = 4
	modalMinInner    = 24
	modalMaxInner    = 56
	modalMargin      = 2
)

// Modal is a centered message box with a title and a single OK
// button. It only renders; the caller owns open/closed state.
type Modal struct {
	Title   string
	Message string
	Button  string
	Theme   Theme

	// Renderer styles the box. Nil uses the lipgloss default.
	Renderer *lipgloss.Renderer
}

func (modal Modal) newStyle() lipgloss.Style {
	if modal.Renderer == nil {
		return lipgloss.NewStyle()
	}
	return modal.Renderer.NewStyle()
}

// ModalLayout is a rendered modal and its hit regions in screen
// coordinates.
type ModalLayout struct {
	Lines  []string
	Box    Rect
	Button Rect
	Close  Rect
}

// Render lays the modal out centered on a screenWidth x screenHeight
// view. The message wraps to the inner width.
func (modal Modal) Render(screenWidth, screenHeight int) ModalLayout {
	innerWidth := screenWidth - modalMargin*2 - modalChromeWidth
	innerWidth = min(max(innerWidth, modalMinInner), modalMaxInner)
	if innerWidth+modalChromeWidth > screenWidth {
		innerWidth = max(screenWidth-modalChromeWidth, 1)
	}

	background := modal.newStyle().Background(modal.Theme.AlertBackground)
	titleStyle := background.Bold(true).Foreground(modal.Theme.AlertTitle)
	textStyle := background.Foreground(modal.Theme.NormalText)
	buttonStyle := modal.newStyle().
		Bold(true).
		Foreground(modal.Theme.AlertTitle).
		Background(modal.Theme.ButtonFocused)

	const closeGlyph = "×"
	title := titleStyle.Render(ansi.Truncate(modal.Title, innerWidth-2, "…"))
	titleRow := PadLine(title, innerWidth-1, background) + titleStyle.Render(closeGlyph)

	var body []string
	for _, line := range strings.Split(ansi.Wrap(modal.Message, innerWidth, ""), "\n") {
		body = append(body, PadLine(textStyle.Render(line), innerWidth, background))
	}

	label := " " + modal.Button + " "
	labelWidth := ansi.StringWidth(label)
	buttonOffset := max((innerWidth-labelWidth)/2, 0)
	buttonRow := background.Render(strings.Repeat(" ", buttonOffset)) + buttonStyle.Render(label)
	buttonRow = PadLine(buttonRow, innerWidth, background)

	blank := background.Render(strings.Repeat(" ", innerWidth))
	rows := append([]string{titleRow, blank}, body...)
	rows = append(rows, blank, buttonRow)

	box := modal.newStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Theme.AlertBorder).
		BorderBackground(modal.Theme.AlertBackground).
		Background(modal.Theme.AlertBackground).
		Padding(0, 1)
	lines := strings.Split(box.Render(strings.Join(rows, "\n")), "\n")

	width := ansi.StringWidth(lines[0])
	anchorX := max((screenWidth-width)/2, 0)
	anchorY := max((screenHeight-len(lines))/2, 0)

	// Content starts one row below the top border and two columns in.
	contentX := anchorX + 2
	contentY := anchorY + 1
	return ModalLayout{
		Lines: lines,
		Box:   Rect{X: anchorX, Y: anchorY, Width: width, Height: len(lines)},
		Button: Rect{
			X:      contentX + buttonOffset,
			Y:      contentY + len(rows) - 1,
			Width:  labelWidth,
			Height: 1,
		},
		Close: Rect{X: contentX + innerWidth - 1, Y: contentY, Width: 1, Height: 1},
	}
}
