// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockdevice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/smartdusbin/binmon/lib/clock"
	"github.com/smartdusbin/binmon/lib/schema/bin"
	"github.com/smartdusbin/binmon/lib/testutil"
)

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, err := websocket.Dial("ws"+strings.TrimPrefix(server.URL, "http"), "", server.URL)
	if err != nil {
		t.Fatalf("dial hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) bin.Envelope {
	t.Helper()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	var message string
	if err := websocket.Message.Receive(conn, &message); err != nil {
		t.Fatalf("receive: %v", err)
	}
	envelope, err := bin.DecodeEnvelope([]byte(message))
	if err != nil {
		t.Fatalf("decode %q: %v", message, err)
	}
	return envelope
}

func TestHubSendsSnapshotOnConnectAndBroadcasts(t *testing.T) {
	device := NewDevice(testConfig())
	initial, err := bin.Encode(device.Snapshot())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	hub := NewHub(initial, slog.New(slog.NewTextHandler(io.Discard, nil)))
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	first := dialHub(t, server)
	second := dialHub(t, server)
	for _, conn := range []*websocket.Conn{first, second} {
		envelope := receive(t, conn)
		if global, present, _ := envelope.Global(); !present || global.Servo.Value != ServoClosed {
			t.Errorf("connect snapshot global = %+v (present=%v)", global, present)
		}
	}

	hub.Broadcast([]byte(`{"alert":{"type":"wrong","message":"test"}}`))
	for _, conn := range []*websocket.Conn{first, second} {
		event, present, _ := receive(t, conn).Alert()
		if !present || event.Message != "test" {
			t.Errorf("broadcast alert = %+v (present=%v)", event, present)
		}
	}
	if clients := hub.Clients(); clients != 2 {
		t.Errorf("Clients() = %d, want 2", clients)
	}
}

// Run broadcasts one snapshot per tick, and late joiners get the
// latest state without the one-shot alert.
func TestRunBroadcastsEachCycle(t *testing.T) {
	config := testConfig()
	config.AlertEvery = 1
	device := NewDevice(config)
	initial, _ := bin.Encode(device.Snapshot())
	hub := NewHub(initial, slog.New(slog.NewTextHandler(io.Discard, nil)))
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dialHub(t, server)
	receive(t, conn)

	fakeClock := clock.Fake(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, device, hub, fakeClock, time.Second) }()

	fakeClock.WaitForTimers(1)
	fakeClock.Advance(time.Second)
	envelope := receive(t, conn)
	if _, present, _ := envelope.Alert(); !present {
		t.Error("cycle broadcast missing its alert")
	}

	late := dialHub(t, server)
	lateEnvelope := receive(t, late)
	if _, present, _ := lateEnvelope.Alert(); present {
		t.Error("late joiner received a stale alert")
	}
	if _, present, _ := lateEnvelope.Reading(bin.CategoryCans); !present {
		t.Error("late joiner snapshot missing cans")
	}

	cancel()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "Run exit"); !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}
