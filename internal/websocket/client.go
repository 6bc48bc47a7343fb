// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/eternyx/threatlens/internal/logging"
	"github.com/eternyx/threatlens/internal/metrics"
)

// clientIDCounter hands out monotonically increasing IDs so broadcasts
// iterate clients in connection order.
var clientIDCounter atomic.Uint64

// Client is a middleman between the websocket connection and the hub
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewClient creates a new Client with a unique ID
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan Message, hub.config.SendBuffer),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() uint64 {
	return c.id
}

// unregister hands the client back to the hub unless the hub already stopped.
func (c *Client) unregister() {
	select {
	case c.hub.Unregister <- c:
	case <-c.hub.done:
	}
}

// readPump consumes client frames. Clients only ever send pings; anything
// else is ignored.
func (c *Client) readPump() {
	defer func() {
		c.unregister()
		_ = c.conn.Close()
	}()

	cfg := c.hub.config
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(cfg.pongWait())); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.pongWait()))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.RecordWSError("unexpected_close")
				logging.Warn().Err(err).Uint64("client_id", c.id).Msg("unexpected websocket close error")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			metrics.RecordWSError("invalid_message")
			continue
		}

		if msg.Type == MessageTypePing {
			pong := Message{Type: MessageTypePong, Timestamp: c.hub.now().UTC()}
			select {
			case c.send <- pong:
			default:
			}
		}
	}
}

// writePump drains the send channel to the connection and keeps the
// connection alive with periodic pings.
func (c *Client) writePump() {
	cfg := c.hub.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			data, err := MarshalMessage(message)
			if err != nil {
				metrics.RecordWSError("marshal")
				logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to marshal websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				metrics.RecordWSError("write")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
