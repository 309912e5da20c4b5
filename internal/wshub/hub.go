// Package wshub manages per-room WebSocket connections and fans out
// game events to them.
package wshub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"partyhub/internal/metrics"
)

// Envelope is the JSON structure sent to clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Sender writes a single text frame to the underlying transport.
type Sender interface {
	Send(ctx context.Context, data []byte) error
}

type wsSender struct {
	conn *websocket.Conn
}

func (s wsSender) Send(ctx context.Context, data []byte) error {
	return s.conn.Write(ctx, websocket.MessageText, data)
}

// NewSender wraps a WebSocket connection as a Sender.
func NewSender(conn *websocket.Conn) Sender {
	return wsSender{conn: conn}
}

// Client represents a single subscriber connection in the hub.
type Client struct {
	RoomCode string
	PlayerID string
	conn     Sender
	send     chan []byte
}

func NewClient(roomCode, playerID string, conn Sender, buffer int) *Client {
	return &Client{
		RoomCode: roomCode,
		PlayerID: playerID,
		conn:     conn,
		send:     make(chan []byte, buffer),
	}
}

// WritePump drains the send channel to the connection, preserving the
// order events were published. It returns on write error, context
// cancellation, or channel close (deregistration).
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Send(ctx, msg); err != nil {
				log.Debug().Str("room", c.RoomCode).Str("player", c.PlayerID).Err(err).Msg("write failed")
				return
			}
		}
	}
}

// Hub is the per-room connection registry and event bus. It holds no
// ownership of room or session state, only delivery handles.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[string]*Client),
	}
}

// Register adds a client to its room's registry. A second registration
// for the same player replaces the old connection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.RoomCode]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[c.RoomCode] = room
	}
	old := room[c.PlayerID]
	room[c.PlayerID] = c
	h.mu.Unlock()

	if old != nil {
		close(old.send)
	} else {
		metrics.ConnectionsOpen.Inc()
	}
}

// Unregister removes a client and closes its send channel. The identity
// check makes it a no-op when the player has already reconnected and the
// registry holds a newer client; the return value reports whether this
// client was still the current one, so callers can skip disconnect
// bookkeeping for a superseded handle.
func (h *Hub) Unregister(c *Client) bool {
	h.mu.Lock()
	removed := false
	if room, ok := h.rooms[c.RoomCode]; ok && room[c.PlayerID] == c {
		delete(room, c.PlayerID)
		if len(room) == 0 {
			delete(h.rooms, c.RoomCode)
		}
		removed = true
	}
	h.mu.Unlock()

	if removed {
		close(c.send)
		metrics.ConnectionsOpen.Dec()
	}
	return removed
}

// RoomSize reports how many connections are registered for a room.
func (h *Hub) RoomSize(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

// Publish delivers an event to every connection in a room. Delivery is
// best effort: a subscriber whose buffer is full is deregistered and
// fan-out continues to the rest. Order of successive publishes to the
// same subscriber is preserved by its send channel.
func (h *Hub) Publish(roomCode, event string, payload any) {
	data, err := json.Marshal(Envelope{Type: event, Data: payload})
	if err != nil {
		log.Error().Str("room", roomCode).Str("event", event).Err(err).Msg("marshal failed")
		return
	}

	var failed []*Client
	h.mu.RLock()
	for _, c := range h.rooms[roomCode] {
		select {
		case c.send <- data:
			metrics.BroadcastsSent.Inc()
		default:
			failed = append(failed, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range failed {
		log.Warn().Str("room", roomCode).Str("player", c.PlayerID).Msg("send buffer full, dropping connection")
		metrics.BroadcastFailures.Inc()
		h.Unregister(c)
	}
}

// PublishTo delivers an event to a single player's connection, used for
// host-only countdown ticks and targeted rejections.
func (h *Hub) PublishTo(roomCode, playerID, event string, payload any) {
	data, err := json.Marshal(Envelope{Type: event, Data: payload})
	if err != nil {
		log.Error().Str("room", roomCode).Str("event", event).Err(err).Msg("marshal failed")
		return
	}

	h.mu.RLock()
	c := h.rooms[roomCode][playerID]
	var full bool
	if c != nil {
		select {
		case c.send <- data:
			metrics.BroadcastsSent.Inc()
		default:
			full = true
		}
	}
	h.mu.RUnlock()

	if full {
		metrics.BroadcastFailures.Inc()
		h.Unregister(c)
	}
}
