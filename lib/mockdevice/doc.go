// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mockdevice simulates a smart bin controller for development
// without hardware.
//
// [Device] models the controller's state machine: each polling cycle
// reads one ultrasonic distance per compartment, marks a compartment
// FULL once its distance has dropped [Config.FullThresholdCM] below
// the calibrated baseline, and sorts one simulated item by moving the
// stepper and cycling the lid servo. A full target compartment keeps
// the lid shut. Every [Config.AlertEvery] cycles the sorted item is
// reported as misplaced.
//
// [Hub] serves the resulting snapshots over WebSocket: a full snapshot
// to each client on connect, then one broadcast per cycle to every
// connected client. [Run] ties the two together on a [clock.Clock].
package mockdevice
