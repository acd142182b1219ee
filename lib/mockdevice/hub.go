// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockdevice

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/smartdusbin/binmon/lib/clock"
	"github.com/smartdusbin/binmon/lib/schema/bin"
)

// clientBuffer bounds the messages queued for one slow client.
const clientBuffer = 16

// Hub fans snapshots out to WebSocket clients.
type Hub struct {
	logger *slog.Logger

	mutex   sync.Mutex
	clients map[*hubClient]struct{}
	// current is sent to each client as it connects.
	current []byte
}

type hubClient struct {
	outbound chan []byte
}

// NewHub creates a hub whose first-connect snapshot is initial.
func NewHub(initial []byte, logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*hubClient]struct{}),
		current: initial,
	}
}

// Handler serves the WebSocket endpoint.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast queues message for every client and remembers it as the
// snapshot for future connections. A client whose queue is full misses
// the message.
func (h *Hub) Broadcast(message []byte) {
	h.publish(message, message)
}

// publish queues message for every client and installs current as the
// connect-time snapshot in the same critical section.
func (h *Hub) publish(message, current []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.current = current
	for client := range h.clients {
		select {
		case client.outbound <- message:
		default:
			h.logger.Warn("client queue full, dropping snapshot")
		}
	}
}

func (h *Hub) serve(conn *websocket.Conn) {
	client := &hubClient{outbound: make(chan []byte, clientBuffer)}

	h.mutex.Lock()
	client.outbound <- h.current
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mutex.Unlock()

	remote := conn.Request().RemoteAddr
	h.logger.Info("client connected", "remote", remote, "clients", total)
	defer func() {
		h.mutex.Lock()
		delete(h.clients, client)
		total := len(h.clients)
		h.mutex.Unlock()
		h.logger.Info("client disconnected", "remote", remote, "clients", total)
	}()

	// The client never sends; a read returning is the close signal.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		var discard []byte
		for websocket.Message.Receive(conn, &discard) == nil {
		}
	}()

	for {
		select {
		case message := <-client.outbound:
			if err := websocket.Message.Send(conn, string(message)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// Run polls device every interval and broadcasts each snapshot until
// ctx is cancelled.
func Run(ctx context.Context, device *Device, hub *Hub, clk clock.Clock, interval time.Duration) error {
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snapshot := device.Step()
			message, err := bin.Encode(snapshot)
			if err != nil {
				return err
			}
			current := message
			if snapshot.Alert != nil {
				// The alert is a one-shot event; late joiners get the
				// state without it.
				alertless := snapshot
				alertless.Alert = nil
				if current, err = bin.Encode(alertless); err != nil {
					return err
				}
			}
			hub.publish(message, current)
		}
	}
}
