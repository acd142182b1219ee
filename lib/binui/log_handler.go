// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg carries one log record into the status bar.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// logRecordFadeMsg clears the status bar once the record identified by
// sequence has been shown for logRecordFadeDelay.
type logRecordFadeMsg struct {
	sequence int
}

const logRecordFadeDelay = 5 * time.Second

// LogHandler is a slog.Handler that sends records to a bubbletea
// program for display in the status bar. Records before SetProgram
// are dropped. Handlers derived through WithAttrs and WithGroup share
// the program pointer.
type LogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
	group   string
}

// NewLogHandler creates a handler for records at or above level.
func NewLogHandler(level slog.Level) *LogHandler {
	return &LogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram starts delivery. Safe from any goroutine.
func (handler *LogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

// Enabled implements slog.Handler.
func (handler *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle implements slog.Handler.
func (handler *LogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}
	program.Send(logRecordMsg{Summary: handler.summarize(record), Level: record.Level})
	return nil
}

// summarize renders "message (key=value, ...)".
func (handler *LogHandler) summarize(record slog.Record) string {
	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, handler.formatAttr(attr))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, handler.formatAttr(attr))
		return true
	})
	if len(parts) == 0 {
		return record.Message
	}
	return fmt.Sprintf("%s (%s)", record.Message, strings.Join(parts, ", "))
}

func (handler *LogHandler) formatAttr(attr slog.Attr) string {
	key := attr.Key
	if handler.group != "" {
		key = handler.group + "." + key
	}
	return key + "=" + attr.Value.String()
}

// WithAttrs implements slog.Handler.
func (handler *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = append(slices.Clone(handler.attrs), attrs...)
	return &derived
}

// WithGroup implements slog.Handler.
func (handler *LogHandler) WithGroup(name string) slog.Handler {
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	if derived.group != "" {
		name = derived.group + "." + name
	}
	derived.group = name
	return &derived
}
