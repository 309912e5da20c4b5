package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"partyhub/internal/metrics"
	"partyhub/internal/rooms"
	"partyhub/internal/wshub"
)

// clientMessage is the JSON structure received from clients.
type clientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// actionData carries the fields of game_action and player_action
// messages.
type actionData struct {
	Action      string `json:"action"`
	PlayerID    string `json:"player_id"`
	Points      int    `json:"points"`
	AnswerIndex *int   `json:"answer_index"`
	Message     string `json:"message"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	playerID := r.PathValue("player_id")

	room := s.Rooms.Get(code)
	if room == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	player, ok := room.Player(playerID)
	if !ok {
		http.Error(w, "player not in room", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Warn().Str("room", code).Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := wshub.NewClient(code, playerID, wshub.NewSender(conn), s.Cfg.SendBuffer)
	s.Hub.Register(client)
	go func() {
		client.WritePump(ctx)
		cancel()
	}()

	room.SetConnected(playerID, true)
	s.Hub.Publish(code, "player_connected", map[string]string{
		"player_id":   playerID,
		"player_name": player.Name,
	})
	log.Info().Str("room", code).Str("player", playerID).Msg("player connected")

	defer func() {
		// A reconnect replaces this client in the hub; the stale
		// handler must not mark the new connection as disconnected.
		if !s.Hub.Unregister(client) {
			return
		}
		room.SetConnected(playerID, false)
		s.Hub.Publish(code, "player_disconnected", map[string]string{
			"player_id":   playerID,
			"player_name": player.Name,
		})
		log.Info().Str("room", code).Str("player", playerID).Msg("player disconnected")
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.Hub.PublishTo(code, playerID, "error", map[string]string{"message": "invalid message"})
			continue
		}
		s.routeMessage(room, playerID, msg)
	}
}

// routeMessage dispatches one inbound client message. Invalid-state
// actions are rejected without mutation or broadcast; unknown rooms
// and players never get this far.
func (s *Server) routeMessage(room *rooms.Room, playerID string, msg clientMessage) {
	switch msg.Type {
	case "ping":
		s.Hub.PublishTo(room.Code, playerID, "pong", struct{}{})

	case "player_ready":
		s.handleReady(room, playerID, true)

	case "player_unready":
		s.handleReady(room, playerID, false)

	case "chat":
		var data actionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		s.handleChat(room, playerID, data.Message)

	case "game_action":
		var data actionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		s.handleGameAction(room, playerID, data)

	case "player_action":
		var data actionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		s.handlePlayerAction(room, playerID, data)

	default:
		log.Debug().Str("room", room.Code).Str("type", msg.Type).Msg("unknown message type")
	}
}

func (s *Server) handleReady(room *rooms.Room, playerID string, ready bool) {
	if room.Status() != rooms.StatusWaiting {
		return
	}
	if !room.SetReady(playerID, ready) {
		return
	}
	metrics.ActionsTotal.WithLabelValues("ready").Inc()
	s.broadcastLobby(room)
}

func (s *Server) handleChat(room *rooms.Room, playerID, message string) {
	player, ok := room.Player(playerID)
	if !ok {
		return
	}
	if len(message) > 200 {
		message = message[:200]
	}
	s.Hub.Publish(room.Code, "chat_message", map[string]string{
		"player_id":   playerID,
		"player_name": player.Name,
		"message":     message,
		"timestamp":   s.Clock.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
