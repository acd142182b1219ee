// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the terminal building blocks shared by binmon's
// dashboard: the color theme, ANSI-aware overlay splicing, and the
// alert modal box. Layout and domain rendering live in lib/binui.
package tui
