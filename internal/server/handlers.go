package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"partyhub/internal/game"
	"partyhub/internal/rooms"
)

type createRoomRequest struct {
	HostName       string `json:"host_name"`
	GameType       string `json:"game_type"`
	CustomRoomCode string `json:"custom_room_code"`
}

type joinRoomRequest struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

type leaveRoomRequest struct {
	PlayerID string `json:"player_id"`
}

type roomResponse struct {
	RoomCode     string         `json:"room_code"`
	GameType     string         `json:"game_type"`
	Status       string         `json:"status"`
	HostPlayerID string         `json:"host_player_id"`
	Players      []rooms.Player `json:"players"`
	CreatedAt    string         `json:"created_at"`
}

type joinResponse struct {
	roomResponse
	PlayerID string `json:"player_id"`
}

func roomState(room *rooms.Room) roomResponse {
	return roomResponse{
		RoomCode:     room.Code,
		GameType:     string(room.GameType),
		Status:       string(room.Status()),
		HostPlayerID: room.HostID,
		Players:      room.Roster(),
		CreatedAt:    room.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.HostName = strings.TrimSpace(req.HostName)
	if req.HostName == "" || len(req.HostName) > 30 {
		writeError(w, http.StatusBadRequest, "host_name must be 1-30 characters")
		return
	}
	gameType, ok := game.ParseType(req.GameType)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown game_type")
		return
	}

	customCode := ""
	if req.CustomRoomCode != "" {
		code, err := rooms.NormalizeCode(req.CustomRoomCode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		customCode = code
	}

	host := rooms.Player{
		ID:       uuid.New().String(),
		Name:     req.HostName,
		Color:    rooms.RandomColor(),
		IsHost:   true,
		JoinedAt: s.Clock.Now(),
	}
	room, err := s.Rooms.Create(gameType, host, customCode)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	if s.DB != nil {
		if err := s.DB.UpsertPlayer(host.ID, host.Name, host.Color); err != nil {
			log.Warn().Err(err).Msg("upserting host")
		}
	}

	log.Info().Str("room", room.Code).Str("type", string(gameType)).Msg("room created")
	writeJSON(w, http.StatusCreated, joinResponse{roomResponse: roomState(room), PlayerID: host.ID})
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" || len(req.PlayerName) > 30 {
		writeError(w, http.StatusBadRequest, "player_name must be 1-30 characters")
		return
	}
	code, err := rooms.NormalizeCode(req.RoomCode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room := s.Rooms.Get(code)
	if room == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if room.Status() != rooms.StatusWaiting {
		writeError(w, http.StatusConflict, "game already in progress")
		return
	}

	player := rooms.Player{
		ID:       uuid.New().String(),
		Name:     req.PlayerName,
		Color:    rooms.RandomColor(),
		JoinedAt: s.Clock.Now(),
	}
	if err := room.Join(player); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	if s.DB != nil {
		if err := s.DB.UpsertPlayer(player.ID, player.Name, player.Color); err != nil {
			log.Warn().Err(err).Msg("upserting player")
		}
	}

	s.broadcastLobby(room)
	writeJSON(w, http.StatusOK, joinResponse{roomResponse: roomState(room), PlayerID: player.ID})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	list := s.Rooms.List()
	out := make([]roomResponse, 0, len(list))
	for _, room := range list {
		out = append(out, roomState(room))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room := s.Rooms.Get(strings.ToUpper(r.PathValue("code")))
	if room == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, roomState(room))
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	var req leaveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code := strings.ToUpper(r.PathValue("code"))
	room := s.Rooms.Get(code)
	if room == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if _, ok := room.Player(req.PlayerID); !ok {
		writeError(w, http.StatusNotFound, "player not in room")
		return
	}

	if err := s.Rooms.RemovePlayer(code, req.PlayerID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.broadcastLobby(room)
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// broadcastLobby publishes the post-mutation roster snapshot.
func (s *Server) broadcastLobby(room *rooms.Room) {
	roster := room.Roster()
	allReady := room.AllReady()
	s.Hub.Publish(room.Code, "lobby_updated", map[string]any{
		"players":   roster,
		"all_ready": allReady,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db_error", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusNotFound, "no database configured")
		return
	}
	board, err := s.DB.Leaderboard(25)
	if err != nil {
		log.Error().Err(err).Msg("querying leaderboard")
		writeError(w, http.StatusInternalServerError, "leaderboard unavailable")
		return
	}
	writeJSON(w, http.StatusOK, board)
}
