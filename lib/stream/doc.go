// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stream keeps a persistent telemetry connection to a bin
// controller and dispatches every message it receives.
//
// A [Manager] owns at most one live connection. Each connection
// attempt gets a new generation number; events from any earlier
// generation (a late close, a read error from a replaced socket) are
// discarded. When the live connection fails for any reason, including
// a failed dial, the manager arms exactly one reconnect timer and
// tries again after a fixed delay, forever, until [Manager.Close].
//
// Messages are decoded with [bin.DecodeEnvelope] and dispatched in
// arrival order on the connection's reader goroutine:
//
//   - each configured category facet goes to [Projector.ApplyCategoryReading]
//   - the global facet goes to [Projector.ApplyGlobalStatus]
//   - an alert facet of the configured kind goes to [Alerter.Show]
//
// Malformed messages are logged and dropped whole. A malformed facet
// inside an otherwise valid message is logged and skipped; the other
// facets still apply.
//
// The transport is pluggable through [Dialer]. [WebSocketDialer] is
// the production implementation.
package stream
