// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// binmon-mock simulates the bin controller for development. It serves
// the telemetry WebSocket, sends every client the current snapshot on
// connect, and broadcasts a fresh snapshot after each polling cycle.
// Settings come from BINMON_MOCK_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smartdusbin/binmon/lib/clock"
	"github.com/smartdusbin/binmon/lib/mockdevice"
	"github.com/smartdusbin/binmon/lib/schema/bin"
	"github.com/smartdusbin/binmon/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("binmon-mock %s\n", version.Full())
		return nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := mockdevice.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	device := mockdevice.NewDevice(cfg)
	initial, err := bin.Encode(device.Snapshot())
	if err != nil {
		return err
	}
	hub := mockdevice.NewHub(initial, logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.ListenAndServe()
	}()

	runDone := make(chan error, 1)
	go func() {
		runDone <- mockdevice.Run(ctx, device, hub, clock.Real(), cfg.Interval)
	}()

	logger.Info("bin simulator running",
		"addr", cfg.Addr,
		"interval", cfg.Interval,
		"alert_every", cfg.AlertEvery,
	)

	select {
	case err := <-serveDone:
		stop()
		<-runDone
		return fmt.Errorf("serving %s: %w", cfg.Addr, err)
	case err := <-runDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			server.Close()
			return err
		}
	}

	logger.Info("shutting down")
	shutdownContext, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// Hijacked WebSocket connections are not tracked by Shutdown.
	if err := server.Shutdown(shutdownContext); err != nil {
		return err
	}
	if err := <-serveDone; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
