// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/smartdusbin/binmon/lib/alert"
	"github.com/smartdusbin/binmon/lib/projector"
	"github.com/smartdusbin/binmon/lib/schema/bin"
	"github.com/smartdusbin/binmon/lib/stream"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "BINMON_CONFIG"

// DefaultEndpoint is the controller address of the stock bin.
const DefaultEndpoint = "ws://10.30.131.171:8000"

// Environment selects an override section.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the complete binmon configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	Stream StreamConfig `yaml:"stream"`

	// Categories lists the compartments in display order.
	Categories []string `yaml:"categories"`

	Display DisplayConfig `yaml:"display"`

	Alert AlertConfig `yaml:"alert"`

	Logging LoggingConfig `yaml:"logging"`

	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides holds per-environment replacements. Only non-zero values
// override.
type Overrides struct {
	Stream  *StreamConfig  `yaml:"stream,omitempty"`
	Logging *LoggingConfig `yaml:"logging,omitempty"`
}

// StreamConfig configures the telemetry connection.
type StreamConfig struct {
	// Endpoint is the ws:// or wss:// URL of the bin controller.
	Endpoint string `yaml:"endpoint"`

	// Origin is sent as the WebSocket Origin header.
	Origin string `yaml:"origin"`

	// ReconnectDelay is the fixed wait after any disconnect.
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`

	// DialTimeout bounds each handshake.
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// DisplayConfig controls how readings are rendered.
type DisplayConfig struct {
	UnitLabel         string `yaml:"unit_label"`
	Placeholder       string `yaml:"placeholder"`
	FullMarker        string `yaml:"full_marker"`
	ServoOpenMarker   string `yaml:"servo_open_marker"`
	ServoClosedMarker string `yaml:"servo_closed_marker"`
}

// AlertConfig controls the alert modal.
type AlertConfig struct {
	// Kind is the alert type that opens the modal.
	Kind string `yaml:"kind"`

	// DefaultMessage is shown for alerts that carry no text.
	DefaultMessage string `yaml:"default_message"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Output is a file receiving JSON log records. Empty disables the
	// file log.
	Output string `yaml:"output"`
}

// Default returns the configuration for the stock bin.
func Default() *Config {
	options := projector.DefaultOptions()
	return &Config{
		Environment: Development,
		Stream: StreamConfig{
			Endpoint:       DefaultEndpoint,
			Origin:         stream.DefaultOrigin,
			ReconnectDelay: stream.DefaultReconnectDelay,
			DialTimeout:    10 * time.Second,
		},
		Categories: categoryNames(bin.DefaultCategories()),
		Display: DisplayConfig{
			UnitLabel:         options.UnitLabel,
			Placeholder:       options.Placeholder,
			FullMarker:        options.FullMarker,
			ServoOpenMarker:   options.OpenMarker,
			ServoClosedMarker: options.ClosedMarker,
		},
		Alert: AlertConfig{
			Kind:           bin.AlertKindWrong,
			DefaultMessage: alert.DefaultMessage,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the file named by BINMON_CONFIG, or returns Default when
// the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults, applies the environment
// overrides, and expands variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	// Cleared so a level the file sets survives; filled in below.
	cfg.Logging.Level = ""
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.applyEnvironmentOverrides()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLevel(cfg.Environment)
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Stream != nil {
		if overrides.Stream.Endpoint != "" {
			c.Stream.Endpoint = overrides.Stream.Endpoint
		}
		if overrides.Stream.Origin != "" {
			c.Stream.Origin = overrides.Stream.Origin
		}
		if overrides.Stream.ReconnectDelay != 0 {
			c.Stream.ReconnectDelay = overrides.Stream.ReconnectDelay
		}
		if overrides.Stream.DialTimeout != 0 {
			c.Stream.DialTimeout = overrides.Stream.DialTimeout
		}
	}
	if overrides.Logging != nil {
		if overrides.Logging.Level != "" {
			c.Logging.Level = overrides.Logging.Level
		}
		if overrides.Logging.Output != "" {
			c.Logging.Output = overrides.Logging.Output
		}
	}
}

// defaultLevel is the log level for a file that names none. Production
// logs warnings and above.
func defaultLevel(environment Environment) string {
	if environment == Production {
		return "warn"
	}
	return "info"
}

func (c *Config) expandVariables() {
	c.Stream.Endpoint = expandVars(c.Stream.Endpoint)
	c.Stream.Origin = expandVars(c.Stream.Origin)
	c.Logging.Output = expandVars(c.Logging.Output)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case Development, Staging, Production:
	default:
		errs = append(errs, fmt.Errorf("environment must be development, staging, or production; got %q", c.Environment))
	}

	if endpoint, err := url.Parse(c.Stream.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("stream.endpoint: %w", err))
	} else if endpoint.Scheme != "ws" && endpoint.Scheme != "wss" {
		errs = append(errs, fmt.Errorf("stream.endpoint must be a ws:// or wss:// URL; got %q", c.Stream.Endpoint))
	} else if endpoint.Host == "" {
		errs = append(errs, fmt.Errorf("stream.endpoint has no host: %q", c.Stream.Endpoint))
	}
	if c.Stream.ReconnectDelay <= 0 {
		errs = append(errs, fmt.Errorf("stream.reconnect_delay must be positive; got %s", c.Stream.ReconnectDelay))
	}
	if c.Stream.DialTimeout < 0 {
		errs = append(errs, fmt.Errorf("stream.dial_timeout must not be negative; got %s", c.Stream.DialTimeout))
	}

	if len(c.Categories) == 0 {
		errs = append(errs, errors.New("categories must list at least one compartment"))
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, name := range c.Categories {
		switch {
		case name == "":
			errs = append(errs, errors.New("categories contains an empty name"))
		case name == bin.KeyGlobal || name == bin.KeyAlert:
			errs = append(errs, fmt.Errorf("category %q collides with a reserved message key", name))
		case seen[name]:
			errs = append(errs, fmt.Errorf("category %q is listed twice", name))
		}
		seen[name] = true
	}

	if c.Alert.Kind == "" {
		errs = append(errs, errors.New("alert.kind must not be empty"))
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// CategoryList returns the configured categories as typed values.
func (c *Config) CategoryList() []bin.Category {
	categories := make([]bin.Category, 0, len(c.Categories))
	for _, name := range c.Categories {
		categories = append(categories, bin.Category(name))
	}
	return categories
}

// ProjectorOptions returns the display settings for the projector.
func (c *Config) ProjectorOptions() projector.Options {
	return projector.Options{
		UnitLabel:    c.Display.UnitLabel,
		Placeholder:  c.Display.Placeholder,
		FullMarker:   c.Display.FullMarker,
		OpenMarker:   c.Display.ServoOpenMarker,
		ClosedMarker: c.Display.ServoClosedMarker,
	}
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

func categoryNames(categories []bin.Category) []string {
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, string(category))
	}
	return names
}
