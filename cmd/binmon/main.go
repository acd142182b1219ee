// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// binmon is a live dashboard for the smart waste bin. It holds a
// WebSocket connection to the bin controller, projects each telemetry
// snapshot onto compartment cards and the servo and stepper readouts,
// and opens a modal when the controller reports an item dropped into
// the wrong compartment.
//
// The connection is retried every five seconds for as long as the
// process runs. With --headless there is no terminal UI; every display
// change is logged instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/smartdusbin/binmon/lib/alert"
	"github.com/smartdusbin/binmon/lib/binui"
	"github.com/smartdusbin/binmon/lib/config"
	"github.com/smartdusbin/binmon/lib/projector"
	"github.com/smartdusbin/binmon/lib/stream"
	"github.com/smartdusbin/binmon/lib/surface"
	"github.com/smartdusbin/binmon/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// usageError is a bad command line. Exits with status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }
func (e usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

type options struct {
	configPath string
	endpoint   string
	headless   bool
	logOutput  string
	logLevel   string
}

func parseFlags(args []string) (options, bool, error) {
	var opts options
	flagSet := pflag.NewFlagSet("binmon", pflag.ContinueOnError)
	flagSet.SetOutput(os.Stderr)
	flagSet.StringVar(&opts.configPath, "config", "", "configuration file (YAML or JSONC); overrides "+config.EnvVar)
	flagSet.StringVar(&opts.endpoint, "endpoint", "", "WebSocket URL of the bin controller")
	flagSet.BoolVar(&opts.headless, "headless", false, "log display changes instead of drawing the dashboard")
	flagSet.StringVar(&opts.logOutput, "log-output", "", "append JSON log records at every level to this file")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "minimum log level: debug, info, warn, error")
	showVersion := flagSet.Bool("version", false, "print version information and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return opts, true, nil
		}
		return opts, false, usageError{err}
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return opts, true, nil
	}
	if *showVersion {
		fmt.Printf("binmon %s\n", version.Full())
		return opts, true, nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, false, usagef("unexpected argument: %s", rest[0])
	}
	return opts, false, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `binmon: live dashboard for the smart waste bin.

Connects to the bin controller over WebSocket and shows fill distance
per compartment, the servo and stepper state, and misplaced-item
alerts. Reconnects every five seconds while the controller is away.

Usage:
  binmon [flags]

Examples:
  # Dashboard against the default controller address
  binmon

  # Against a local simulator, logging to a file
  binmon --endpoint ws://localhost:8000 --log-output binmon.jsonl

  # No terminal UI, one log line per display change
  binmon --headless

Flags:
`)
	flagSet.PrintDefaults()
}

// loadConfig applies the config file and then the command line.
func loadConfig(opts options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.endpoint != "" {
		cfg.Stream.Endpoint = opts.endpoint
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logOutput != "" {
		cfg.Logging.Output = opts.logOutput
	}
	if err := cfg.Validate(); err != nil {
		return nil, usageError{err}
	}
	return cfg, nil
}

func run(args []string) error {
	opts, done, err := parseFlags(args)
	if err != nil || done {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return usageError{err}
	}

	var fileHandler slog.Handler
	if cfg.Logging.Output != "" {
		handler, closeFile, err := openFileLogHandler(cfg.Logging.Output)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", cfg.Logging.Output, err)
		}
		defer closeFile()
		fileHandler = handler
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.headless {
		logger := slog.New(withFile(newConsoleHandler(os.Stderr, level), fileHandler))
		return runHeadless(ctx, cfg, logger)
	}

	tuiHandler := binui.NewLogHandler(max(level, slog.LevelInfo))
	logger := slog.New(withFile(tuiHandler, fileHandler))
	return runDashboard(ctx, cfg, logger, tuiHandler)
}

// pipeline is the wired display path: the surface, the controllers
// writing to it, and the connection feeding them.
type pipeline struct {
	surface *surface.Memory
	alerts  *alert.Controller
	manager *stream.Manager
}

func newPipeline(cfg *config.Config, dialer stream.Dialer, logger *slog.Logger) (*pipeline, error) {
	categories := cfg.CategoryList()
	display := surface.NewMemory(categories, surface.WithPlaceholder(cfg.Display.Placeholder))
	alerts := alert.New(display, cfg.Alert.DefaultMessage, logger)
	project := projector.New(display, cfg.ProjectorOptions(), logger)

	manager, err := stream.New(stream.Config{
		Endpoint:       cfg.Stream.Endpoint,
		Dialer:         dialer,
		Projector:      project,
		Alerter:        alerts,
		Categories:     categories,
		AlertKind:      cfg.Alert.Kind,
		ReconnectDelay: cfg.Stream.ReconnectDelay,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}
	return &pipeline{surface: display, alerts: alerts, manager: manager}, nil
}

func webSocketDialer(cfg *config.Config) stream.WebSocketDialer {
	return stream.WebSocketDialer{
		Origin:  cfg.Stream.Origin,
		Timeout: cfg.Stream.DialTimeout,
	}
}

func runDashboard(ctx context.Context, cfg *config.Config, logger *slog.Logger, tuiHandler *binui.LogHandler) error {
	wired, err := newPipeline(cfg, webSocketDialer(cfg), logger)
	if err != nil {
		return err
	}
	defer wired.manager.Close()

	model := binui.NewModel(binui.Config{
		Surface:    wired.surface,
		Alerts:     wired.alerts,
		Connection: wired.manager,
		Endpoint:   cfg.Stream.Endpoint,
	})
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	tuiHandler.SetProgram(program)
	wired.manager.Start()

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
