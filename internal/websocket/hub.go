// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// ErrHubStopped is returned by Attach after the hub has shut down.
var ErrHubStopped = errors.New("websocket hub stopped")

// Message types for WebSocket communication
const (
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeMalwareAlert = "malware_alert"
	MessageTypeTrafficAlert = "traffic_alert"
	MessageTypeThreatAlert  = "threat_alert"
)

// Message represents a WebSocket message
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Config tunes per-connection behavior.
type Config struct {
	PingInterval    time.Duration
	WriteTimeout    time.Duration
	SendBuffer      int
	BroadcastBuffer int
	MaxMessageSize  int64
}

// DefaultConfig returns the settings used when the hub is built with NewHub.
func DefaultConfig() Config {
	return Config{
		PingInterval:    54 * time.Second,
		WriteTimeout:    10 * time.Second,
		SendBuffer:      256,
		BroadcastBuffer: 256,
		MaxMessageSize:  512,
	}
}

// pongWait derives the read deadline from the ping interval, leaving the
// peer a tenth of the interval to answer.
func (c Config) pongWait() time.Duration {
	return c.PingInterval * 10 / 9
}

// Hub maintains the set of active clients and broadcasts alerts to them.
type Hub struct {
	config     Config
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	now        func() time.Time
}

// NewHub creates a Hub with DefaultConfig.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultConfig())
}

// NewHubWithConfig creates a Hub; zero fields fall back to DefaultConfig.
func NewHubWithConfig(cfg Config) *Hub {
	def := DefaultConfig()
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.BroadcastBuffer <= 0 {
		cfg.BroadcastBuffer = def.BroadcastBuffer
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}

	return &Hub{
		config:     cfg,
		broadcast:  make(chan Message, cfg.BroadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		now:        time.Now,
	}
}

// Config returns the hub's connection settings.
func (h *Hub) Config() Config {
	return h.config
}

// Done is closed once RunWithContext has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err().
//
// Shutdown is checked first, then client lifecycle events, then broadcasts,
// so client state is always settled before a message fans out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	defer h.stopOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Info().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		metrics.WSConnections.Dec()
		logging.Info().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// logGracefulShutdown closes all clients and logs the shutdown. ctx.Err()
// is not logged as an error because cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// sortedClients returns clients in connection order. Caller holds h.mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients sends a message to all connected clients in connection
// order. A client whose send buffer is full is dropped rather than allowed
// to stall the hub.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var dropped int
	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
			metrics.RecordWSMessageSent(message.Type)
		default:
			close(client.send)
			delete(h.clients, client)
			metrics.WSConnections.Dec()
			metrics.RecordWSError("send_buffer_full")
			dropped++
		}
	}

	if dropped > 0 {
		logging.Warn().Int("dropped_clients", dropped).Str("message_type", message.Type).Msg("dropped slow websocket clients")
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
	}
}

// Broadcast queues a message for every client without blocking. It reports
// false when the broadcast queue is full and the message was dropped.
func (h *Hub) Broadcast(messageType string, data interface{}) bool {
	message := Message{
		Type:      messageType,
		Timestamp: h.now().UTC(),
		Data:      data,
	}

	select {
	case h.broadcast <- message:
		return true
	default:
		metrics.RecordWSError("broadcast_queue_full")
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
		return false
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Attach registers a client for conn and starts its pumps. It fails with
// ErrHubStopped once the hub's run loop has returned.
func (h *Hub) Attach(conn *websocket.Conn) (*Client, error) {
	client := NewClient(h, conn)
	select {
	case h.Register <- client:
	case <-h.done:
		return nil, ErrHubStopped
	}
	client.Start()
	return client, nil
}
