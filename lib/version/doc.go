// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for binmon binaries.
//
// [Version], [GitCommit], [GitDirty] and [BuildTime] are injected with
// -ldflags -X at build time and keep their development defaults
// otherwise:
//
//	go build -ldflags "-X github.com/smartdusbin/binmon/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/binmon
package version
