// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/net/websocket"
)

// Conn is one open telemetry channel.
type Conn interface {
	// Receive blocks until the next message arrives. Any error ends
	// the connection.
	Receive() ([]byte, error)
	Close() error
}

// Dialer opens telemetry channels.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// DefaultOrigin is sent as the WebSocket Origin header when none is
// configured.
const DefaultOrigin = "http://localhost/"

// WebSocketDialer dials ws:// and wss:// endpoints. Each WebSocket
// message (text or binary) is one telemetry message.
type WebSocketDialer struct {
	// Origin is the Origin header. Empty selects DefaultOrigin.
	Origin string

	// Timeout bounds the handshake. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration
}

// Dial implements [Dialer].
func (d WebSocketDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	origin := d.Origin
	if origin == "" {
		origin = DefaultOrigin
	}
	config, err := websocket.NewConfig(endpoint, origin)
	if err != nil {
		return nil, fmt.Errorf("configuring websocket for %s: %w", endpoint, err)
	}
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	conn, err := config.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", endpoint, err)
	}
	return &webSocketConn{conn: conn}, nil
}

type webSocketConn struct {
	conn *websocket.Conn
}

func (c *webSocketConn) Receive() ([]byte, error) {
	var data []byte
	if err := websocket.Message.Receive(c.conn, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *webSocketConn) Close() error {
	return c.conn.Close()
}
