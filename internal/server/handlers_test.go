package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"partyhub/internal/config"
	"partyhub/internal/rooms"
	"partyhub/internal/wshub"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	clock := clockwork.NewFakeClock()
	hub := wshub.NewHub()
	store := rooms.NewStore(hub, clock, 5*time.Minute)
	return New(config.Default(), store, hub, nil, clock)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func createRoom(t *testing.T, s *Server, gameType, customCode string) (code, hostID string) {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/rooms", createRoomRequest{
		HostName:       "Alice",
		GameType:       gameType,
		CustomRoomCode: customCode,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create room: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp joinResponse
	decodeJSON(t, rec, &resp)
	return resp.RoomCode, resp.PlayerID
}

func joinRoom(t *testing.T, s *Server, code, name string) string {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/rooms/join", joinRoomRequest{RoomCode: code, PlayerName: name})
	if rec.Code != http.StatusOK {
		t.Fatalf("join room: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp joinResponse
	decodeJSON(t, rec, &resp)
	return resp.PlayerID
}

func TestCreateRoom(t *testing.T) {
	s := newTestServer(t)
	code, hostID := createRoom(t, s, "clicker", "")

	if len(code) != 4 {
		t.Errorf("room code %q, want 4 characters", code)
	}
	if hostID == "" {
		t.Error("missing host player id")
	}

	room := s.Rooms.Get(code)
	if room == nil {
		t.Fatal("created room not in the registry")
	}
	if room.Status() != rooms.StatusWaiting {
		t.Errorf("status = %v, want waiting", room.Status())
	}
	if !room.IsHost(hostID) {
		t.Error("creator is not the host")
	}
}

func TestCreateRoom_CustomCode(t *testing.T) {
	s := newTestServer(t)
	code, _ := createRoom(t, s, "trivia", "game42")
	if code != "GAME42" {
		t.Errorf("code = %q, want normalized GAME42", code)
	}

	rec := doJSON(t, s, http.MethodPost, "/rooms", createRoomRequest{
		HostName: "Bob", GameType: "trivia", CustomRoomCode: "GAME42",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate custom code: status %d, want 409", rec.Code)
	}
}

func TestCreateRoom_Validation(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name string
		req  createRoomRequest
	}{
		{"empty host name", createRoomRequest{GameType: "clicker"}},
		{"long host name", createRoomRequest{HostName: string(make([]byte, 31)), GameType: "clicker"}},
		{"unknown game type", createRoomRequest{HostName: "Alice", GameType: "chess"}},
		{"bad custom code", createRoomRequest{HostName: "Alice", GameType: "clicker", CustomRoomCode: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/rooms", tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", rec.Code)
			}
		})
	}
}

func TestJoinRoom(t *testing.T) {
	s := newTestServer(t)
	code, _ := createRoom(t, s, "clicker", "")

	playerID := joinRoom(t, s, code, "Bob")
	if playerID == "" {
		t.Fatal("missing player id")
	}
	room := s.Rooms.Get(code)
	if got := len(room.Roster()); got != 2 {
		t.Errorf("roster size = %d, want 2", got)
	}
}

func TestJoinRoom_UnknownRoom(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/rooms/join", joinRoomRequest{RoomCode: "ZZZZ", PlayerName: "Bob"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestJoinRoom_RejectedWhileActive(t *testing.T) {
	s := newTestServer(t)
	code, _ := createRoom(t, s, "clicker", "")
	s.Rooms.Get(code).SetStatus(rooms.StatusActive)

	rec := doJSON(t, s, http.MethodPost, "/rooms/join", joinRoomRequest{RoomCode: code, PlayerName: "Bob"})
	if rec.Code != http.StatusConflict {
		t.Errorf("status %d, want 409", rec.Code)
	}
}

func TestGetRoom(t *testing.T) {
	s := newTestServer(t)
	code, _ := createRoom(t, s, "buzzer", "")

	rec := doJSON(t, s, http.MethodGet, "/rooms/"+code, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	var resp roomResponse
	decodeJSON(t, rec, &resp)
	if resp.GameType != "buzzer" || len(resp.Players) != 1 {
		t.Errorf("room state = %+v", resp)
	}

	rec = doJSON(t, s, http.MethodGet, "/rooms/ZZZZ", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown room: status %d, want 404", rec.Code)
	}
}

func TestListRooms(t *testing.T) {
	s := newTestServer(t)
	createRoom(t, s, "clicker", "")
	createRoom(t, s, "trivia", "")

	rec := doJSON(t, s, http.MethodGet, "/rooms", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	var resp []roomResponse
	decodeJSON(t, rec, &resp)
	if len(resp) != 2 {
		t.Errorf("listed %d rooms, want 2", len(resp))
	}
}

func TestLeaveRoom(t *testing.T) {
	s := newTestServer(t)
	code, _ := createRoom(t, s, "clicker", "")
	playerID := joinRoom(t, s, code, "Bob")

	rec := doJSON(t, s, http.MethodPost, "/rooms/"+code+"/leave", leaveRoomRequest{PlayerID: playerID})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if got := len(s.Rooms.Get(code).Roster()); got != 1 {
		t.Errorf("roster size = %d, want 1", got)
	}

	rec = doJSON(t, s, http.MethodPost, "/rooms/"+code+"/leave", leaveRoomRequest{PlayerID: "ghost"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent player: status %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status %d, want 200", rec.Code)
	}
}

func TestLeaderboard_NoDatabase(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/leaderboard", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404 without a database", rec.Code)
	}
}
