// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangle of view with overlayLines, top
// left at (anchorX, anchorY). Escape sequences on either side of the
// overlay survive; lines outside the view are skipped.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		row := anchorY + index
		if row < 0 || row >= len(viewLines) {
			continue
		}
		line := viewLines[row]

		var builder strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(line, anchorX, "")
			builder.WriteString(prefix)
			// Short lines leave a gap before the anchor.
			if gap := anchorX - ansi.StringWidth(prefix); gap > 0 {
				builder.WriteString(strings.Repeat(" ", gap))
			}
		}
		builder.WriteString("\x1b[0m")
		builder.WriteString(overlayLine)
		builder.WriteString("\x1b[0m")
		if suffixStart := anchorX + overlayWidth; suffixStart < ansi.StringWidth(line) {
			builder.WriteString(ansi.TruncateLeft(line, suffixStart, ""))
		}
		viewLines[row] = builder.String()
	}

	return strings.Join(viewLines, "\n")
}

// PadLine pads styled content to width with background-styled spaces.
// Content wider than width is truncated.
func PadLine(styledContent string, width int, background lipgloss.Style) string {
	contentWidth := ansi.StringWidth(styledContent)
	if contentWidth > width {
		return ansi.Truncate(styledContent, width, "…")
	}
	if contentWidth == width {
		return styledContent
	}
	return styledContent + background.Render(strings.Repeat(" ", width-contentWidth))
}

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
