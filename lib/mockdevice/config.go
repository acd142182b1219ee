// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockdevice

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls the simulator. Populated from the environment by
// LoadConfig.
type Config struct {
	// Addr is the WebSocket listen address.
	Addr string `env:"BINMON_MOCK_ADDR" envDefault:":8000"`

	// Interval is the time between polling cycles.
	Interval time.Duration `env:"BINMON_MOCK_INTERVAL" envDefault:"2s"`

	// AlertEvery attaches a misplaced-item alert every N cycles. Zero
	// disables alerts.
	AlertEvery int `env:"BINMON_MOCK_ALERT_EVERY" envDefault:"5"`

	// FullThresholdCM is how far below baseline a reading must fall
	// to count as full.
	FullThresholdCM float64 `env:"BINMON_MOCK_FULL_THRESHOLD_CM" envDefault:"1.0"`

	// BaselineCM is the calibrated empty-bin distance.
	BaselineCM float64 `env:"BINMON_MOCK_BASELINE_CM" envDefault:"30"`

	// Seed makes a run reproducible.
	Seed uint64 `env:"BINMON_MOCK_SEED" envDefault:"1"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the simulator settings.
func (c Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive; got %s", c.Interval))
	}
	if c.AlertEvery < 0 {
		errs = append(errs, fmt.Errorf("alert cadence must not be negative; got %d", c.AlertEvery))
	}
	if c.FullThresholdCM <= 0 {
		errs = append(errs, fmt.Errorf("full threshold must be positive; got %g", c.FullThresholdCM))
	}
	if c.BaselineCM <= c.FullThresholdCM {
		errs = append(errs, errors.New("baseline must exceed the full threshold"))
	}
	return errors.Join(errs...)
}
