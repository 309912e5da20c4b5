// Package server is the HTTP/WebSocket boundary: lobby endpoints,
// per-room WebSocket connections, and the routing of client actions
// into the game core.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"partyhub/internal/config"
	"partyhub/internal/db"
	"partyhub/internal/rooms"
	"partyhub/internal/wshub"
)

type Server struct {
	Cfg   config.Config
	Rooms *rooms.Store
	Hub   *wshub.Hub
	DB    *db.DB // nil if no database configured
	Clock clockwork.Clock
}

func New(cfg config.Config, store *rooms.Store, hub *wshub.Hub, database *db.DB, clock clockwork.Clock) *Server {
	return &Server{
		Cfg:   cfg,
		Rooms: store,
		Hub:   hub,
		DB:    database,
		Clock: clock,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
