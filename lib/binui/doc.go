// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binui is the full-screen terminal dashboard for a smart bin.
//
// [Model] renders a [surface.Memory]: one card per compartment with
// its distance and full flag, the servo and stepper readouts, a
// connection indicator fed by a [stream.Manager], and the alert modal
// spliced over everything while it is open. The model never mutates
// display state itself except to dismiss the alert through its
// [AlertController].
//
// The model subscribes to surface changes and connection status
// updates with blocking tea.Cmds, so a redraw happens only when
// something changed (plus a once-a-second tick for the "last update"
// age). [LogHandler] forwards warnings into the status bar.
package binui
