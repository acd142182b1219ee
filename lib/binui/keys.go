// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard key bindings.
type KeyMap struct {
	Dismiss     key.Binding // Close the alert.
	Acknowledge key.Binding // Press the alert's OK button.
	TestAlert   key.Binding // Open a sample alert.
	Quit        key.Binding
}

// DefaultKeyMap is the stock binding set.
var DefaultKeyMap = KeyMap{
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close alert"),
	),
	Acknowledge: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "ok"),
	),
	TestAlert: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "test alert"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
