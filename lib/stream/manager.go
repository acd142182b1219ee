// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/smartdusbin/binmon/lib/clock"
	"github.com/smartdusbin/binmon/lib/schema/bin"
)

// DefaultReconnectDelay is the fixed pause between a failure and the
// next connection attempt.
const DefaultReconnectDelay = 5 * time.Second

// Projector receives decoded readings.
type Projector interface {
	ApplyCategoryReading(category bin.Category, reading bin.CategoryReading)
	ApplyGlobalStatus(status bin.GlobalStatus)
}

// Alerter receives alerts of the configured kind.
type Alerter interface {
	Show(message string)
}

// Config wires a Manager. Endpoint, Dialer and Projector are
// required; everything else has a default.
type Config struct {
	Endpoint string
	Dialer   Dialer

	Projector Projector

	// Alerter may be nil, in which case alerts are only logged.
	Alerter Alerter

	// Categories lists the facets dispatched to the projector, in
	// order. Defaults to bin.DefaultCategories().
	Categories []bin.Category

	// AlertKind is the alert type that reaches the Alerter. Defaults
	// to bin.AlertKindWrong.
	AlertKind string

	// ReconnectDelay defaults to DefaultReconnectDelay.
	ReconnectDelay time.Duration

	Clock  clock.Clock
	Logger *slog.Logger
}

// Manager maintains the telemetry connection. Create with New, then
// call Start once the projector and alerter are ready.
type Manager struct {
	config Config
	clock  clock.Clock
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wait   sync.WaitGroup

	mutex sync.Mutex
	// generation identifies the current attempt. Callbacks carrying
	// any other value are stale.
	generation uint64
	// failedGeneration is the last generation whose failure armed a
	// retry; a second failure report for it is ignored.
	failedGeneration uint64
	conn             Conn
	retry            *clock.Timer
	status           Status
	subscribers      []chan Status
}

// New validates config and returns an idle Manager.
func New(config Config) (*Manager, error) {
	var problems []error
	if config.Endpoint == "" {
		problems = append(problems, errors.New("stream: endpoint is required"))
	}
	if config.Dialer == nil {
		problems = append(problems, errors.New("stream: dialer is required"))
	}
	if config.Projector == nil {
		problems = append(problems, errors.New("stream: projector is required"))
	}
	if config.ReconnectDelay < 0 {
		problems = append(problems, errors.New("stream: reconnect delay must not be negative"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	if len(config.Categories) == 0 {
		config.Categories = bin.DefaultCategories()
	}
	if config.AlertKind == "" {
		config.AlertKind = bin.AlertKindWrong
	}
	if config.ReconnectDelay == 0 {
		config.ReconnectDelay = DefaultReconnectDelay
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		config: config,
		clock:  config.Clock,
		logger: config.Logger.With("endpoint", config.Endpoint),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start begins connecting. It has no effect unless the manager is
// idle: a second Start while connecting, connected, or waiting to
// retry does not open another channel.
func (m *Manager) Start() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.status.State != StateIdle {
		return
	}
	m.connectLocked()
}

// Close stops the manager: cancels any pending retry, closes the live
// channel, and waits for the reader to exit. Safe to call more than
// once.
func (m *Manager) Close() {
	m.mutex.Lock()
	if m.status.State == StateClosed {
		m.mutex.Unlock()
		return
	}
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
	conn := m.conn
	m.conn = nil
	m.status.State = StateClosed
	m.status.RetryAt = time.Time{}
	m.publishLocked()
	m.mutex.Unlock()

	m.cancel()
	if conn != nil {
		conn.Close()
	}
	m.wait.Wait()
	m.logger.Info("telemetry stream closed")
}

// Status returns the current connection status.
func (m *Manager) Status() Status {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.status
}

// Subscribe returns a channel that always holds the latest Status
// after a change. Intermediate values are replaced, not queued.
func (m *Manager) Subscribe() <-chan Status {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	channel := make(chan Status, 1)
	m.subscribers = append(m.subscribers, channel)
	return channel
}

func (m *Manager) publishLocked() {
	for _, subscriber := range m.subscribers {
		select {
		case <-subscriber:
		default:
		}
		subscriber <- m.status
	}
}

// connectLocked starts a new generation. Caller holds m.mutex.
func (m *Manager) connectLocked() {
	m.generation++
	m.status.Generation = m.generation
	m.status.State = StateConnecting
	m.status.RetryAt = time.Time{}
	m.publishLocked()

	generation := m.generation
	m.wait.Add(1)
	go m.run(generation)
}

// current reports whether generation is still the live one.
func (m *Manager) current(generation uint64) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return generation == m.generation && m.status.State != StateClosed
}

// run dials and then reads until the channel fails.
func (m *Manager) run(generation uint64) {
	defer m.wait.Done()

	m.logger.Debug("connecting to telemetry stream", "generation", generation)
	conn, err := m.config.Dialer.Dial(m.ctx, m.config.Endpoint)
	if err != nil {
		m.fail(generation, err)
		return
	}

	m.mutex.Lock()
	if generation != m.generation || m.status.State == StateClosed {
		m.mutex.Unlock()
		conn.Close()
		return
	}
	m.conn = conn
	m.status.State = StateConnected
	m.status.Connects++
	m.status.LastError = ""
	m.publishLocked()
	m.mutex.Unlock()

	m.logger.Info("telemetry stream connected", "generation", generation)

	for {
		data, err := conn.Receive()
		if err != nil {
			m.fail(generation, err)
			return
		}
		if !m.current(generation) {
			return
		}
		decoded := m.dispatch(generation, data)
		m.recordMessage(decoded)
	}
}

// recordMessage counts one processed message.
func (m *Manager) recordMessage(decoded bool) {
	now := m.clock.Now()
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.status.Received++
	m.status.LastMessageAt = now
	if !decoded {
		m.status.Dropped++
	}
	m.publishLocked()
}

// fail handles the end of a channel. The first report for the live
// generation tears down the channel and arms one retry; anything else
// is stale and ignored.
func (m *Manager) fail(generation uint64, cause error) {
	m.mutex.Lock()
	if generation != m.generation || m.status.State == StateClosed || m.failedGeneration == generation {
		m.mutex.Unlock()
		return
	}
	m.failedGeneration = generation

	conn := m.conn
	m.conn = nil
	delay := m.config.ReconnectDelay
	m.status.State = StateWaiting
	m.status.LastError = cause.Error()
	m.status.RetryAt = m.clock.Now().Add(delay)
	m.retry = m.clock.AfterFunc(delay, func() { m.reconnect(generation) })
	m.publishLocked()
	m.mutex.Unlock()

	if conn != nil {
		conn.Close()
	}
	m.logger.Warn("telemetry stream disconnected",
		"generation", generation,
		"error", cause,
		"retry_in", delay,
	)
}

// reconnect is the retry timer callback for the generation that
// failed.
func (m *Manager) reconnect(failed uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if failed != m.generation || m.status.State != StateWaiting {
		return
	}
	m.retry = nil
	m.connectLocked()
}

// dispatch decodes one message and hands its facets out. Returns
// false when the message was dropped as malformed.
func (m *Manager) dispatch(generation uint64, data []byte) bool {
	envelope, err := bin.DecodeEnvelope(data)
	if err != nil {
		m.logger.Warn("dropping malformed telemetry message",
			"generation", generation,
			"error", err,
			"size", len(data),
		)
		return false
	}

	for _, category := range m.config.Categories {
		reading, present, err := envelope.Reading(category)
		if err != nil {
			m.logger.Warn("skipping malformed category reading", "category", category, "error", err)
			continue
		}
		if present {
			m.guard(generation, string(category), func() {
				m.config.Projector.ApplyCategoryReading(category, reading)
			})
		}
	}

	if status, present, err := envelope.Global(); err != nil {
		m.logger.Warn("skipping malformed global status", "error", err)
	} else if present {
		m.guard(generation, bin.KeyGlobal, func() {
			m.config.Projector.ApplyGlobalStatus(status)
		})
	}

	event, present, err := envelope.Alert()
	switch {
	case err != nil:
		m.logger.Warn("skipping malformed alert", "error", err)
	case !present:
	case event.Type != m.config.AlertKind:
		m.logger.Debug("ignoring alert", "type", event.Type)
	case m.config.Alerter == nil:
		m.logger.Info("alert received with no alerter", "message", event.Message)
	default:
		m.guard(generation, bin.KeyAlert, func() {
			m.config.Alerter.Show(event.Message)
		})
	}
	return true
}

// guard runs one facet's handler. A panic is logged and the remaining
// facets still run.
func (m *Manager) guard(generation uint64, facet string, apply func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			m.logger.Error("dispatch failed",
				"generation", generation,
				"facet", facet,
				"error", fmt.Sprint(recovered),
			)
		}
	}()
	apply()
}
