// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	"github.com/smartdusbin/binmon/lib/config"
	"github.com/smartdusbin/binmon/lib/stream"
	"github.com/smartdusbin/binmon/lib/surface"
)

func runHeadless(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	wired, err := newPipeline(cfg, webSocketDialer(cfg), logger)
	if err != nil {
		return err
	}
	defer wired.manager.Close()

	changes := wired.surface.Subscribe()
	statuses := wired.manager.Subscribe()
	wired.manager.Start()
	logger.Info("binmon running headless", "endpoint", cfg.Stream.Endpoint)

	followChanges(ctx, wired.surface, changes, statuses, logger)
	logger.Info("shutting down")
	return nil
}

// followChanges logs every display change and connection transition
// until ctx is done.
func followChanges(ctx context.Context, display *surface.Memory, changes <-chan surface.Change, statuses <-chan stream.Status, logger *slog.Logger) {
	lastState := stream.StateIdle
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-changes:
			logChange(logger, change, display.Snapshot())
		case status, ok := <-statuses:
			if !ok {
				statuses = nil
				continue
			}
			if status.State != lastState {
				lastState = status.State
				logger.Info("connection", "state", status.State.String(), "generation", status.Generation)
			}
		}
	}
}

func logChange(logger *slog.Logger, change surface.Change, snapshot surface.Snapshot) {
	attrs := []any{"revision", change.Revision}
	switch change.Kind {
	case surface.ChangeCategory:
		state, _ := snapshot.Category(change.Category)
		attrs = append(attrs, "category", string(change.Category), "distance", state.DistanceText, "full", state.Full)
	case surface.ChangeServo:
		attrs = append(attrs, "servo", snapshot.Servo.Text, "position", snapshot.Servo.Position.String())
	case surface.ChangeStepper:
		attrs = append(attrs, "stepper", snapshot.Stepper)
	case surface.ChangeAlert:
		attrs = append(attrs, "open", snapshot.Alert.Open, "message", snapshot.Alert.Message)
	}
	logger.Info(string(change.Kind)+" changed", attrs...)
}
