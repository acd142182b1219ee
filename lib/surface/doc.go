// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package surface defines the display port that bin telemetry is
// projected onto, and an in-memory implementation of it.
//
// A [Surface] hands out render targets by name: one [CategoryPanel]
// per compartment, a [ServoReadout], a stepper [TextReadout], and the
// [AlertPanel] modal. Each lookup may fail; callers treat a missing
// target as a no-op rather than an error, so a surface that lays out
// only some of the targets is valid.
//
// [Memory] is the production store behind the terminal dashboard and
// the headless logger, and the fake used by projector and stream
// tests. Every mutation bumps a revision counter and is announced to
// subscribers as a [Change]; [Memory.Snapshot] returns a consistent
// copy for rendering.
package surface
