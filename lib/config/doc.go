// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads binmon configuration.
//
// Configuration is one file, YAML by default or JSONC when the file
// name ends in .json or .jsonc. The path comes from the --config flag
// or the BINMON_CONFIG environment variable; with neither, [Default]
// applies unchanged.
//
// The environment field selects an optional override section
// (development, staging, production) that is merged over the base
// values. Endpoint, origin and log output support ${VAR} and
// ${VAR:-default} expansion from the process environment.
package config
