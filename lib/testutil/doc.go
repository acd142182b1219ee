// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds bounded-wait helpers for binmon tests.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so tests never block forever on a goroutine that failed to
// deliver. [WriteFile] drops a fixture into a per-test temporary
// directory. These helpers are the only place tests use wall-clock
// timeouts; everything else runs on the fake clock in lib/clock.
package testutil
