package rooms

import (
	"testing"
	"time"

	"partyhub/internal/game"
)

func testRoom(t *testing.T) *Room {
	t.Helper()
	host := Player{ID: "host1", Name: "Alice", IsHost: true}
	r := newRoom("AB12", game.TypeClicker, host, time.Now())
	t.Cleanup(r.teardown)
	return r
}

func TestRoom_JoinRejectsDuplicate(t *testing.T) {
	r := testRoom(t)

	if err := r.Join(Player{ID: "p2", Name: "Bob"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := r.Join(Player{ID: "p2", Name: "Bob again"}); err == nil {
		t.Error("duplicate join should be rejected")
	}
	if got := len(r.Roster()); got != 2 {
		t.Errorf("roster size = %d, want 2", got)
	}
}

func TestRoom_LeaveReportsEmpty(t *testing.T) {
	r := testRoom(t)
	r.Join(Player{ID: "p2"})

	removed, empty := r.Leave("p2")
	if !removed || empty {
		t.Errorf("leave p2 = (%v, %v), want (true, false)", removed, empty)
	}
	removed, empty = r.Leave("host1")
	if !removed || !empty {
		t.Errorf("leave host1 = (%v, %v), want (true, true)", removed, empty)
	}
	removed, _ = r.Leave("ghost")
	if removed {
		t.Error("leaving an absent player should report false")
	}
}

func TestRoom_AllReady(t *testing.T) {
	r := testRoom(t)
	r.Join(Player{ID: "p2"})

	if r.AllReady() {
		t.Error("nobody is ready yet")
	}
	r.SetReady("host1", true)
	if r.AllReady() {
		t.Error("one unready player should block readiness")
	}
	r.SetReady("p2", true)
	if !r.AllReady() {
		t.Error("everyone ready, AllReady should hold")
	}

	r.Leave("host1")
	r.Leave("p2")
	if r.AllReady() {
		t.Error("an empty roster must never be ready")
	}
}

func TestRoom_SetReadyUnknownPlayer(t *testing.T) {
	r := testRoom(t)
	if r.SetReady("ghost", true) {
		t.Error("marking an absent player ready should report false")
	}
}

func TestRoom_RosterIsACopy(t *testing.T) {
	r := testRoom(t)
	roster := r.Roster()
	roster[0].Name = "mutated"

	if p, _ := r.Player("host1"); p.Name != "Alice" {
		t.Error("mutating a roster snapshot leaked into the room")
	}
}

func TestRoom_UpsertReplacesInPlace(t *testing.T) {
	r := testRoom(t)
	r.Join(Player{ID: "p2", Name: "Bob"})

	r.Upsert(Player{ID: "p2", Name: "Bob", IsReady: true})
	if got := len(r.Roster()); got != 2 {
		t.Fatalf("roster size = %d, want 2", got)
	}
	p, _ := r.Player("p2")
	if !p.IsReady {
		t.Error("upsert did not replace the existing entry")
	}

	r.Upsert(Player{ID: "p3", Name: "Cara"})
	if got := len(r.Roster()); got != 3 {
		t.Errorf("roster size = %d, want 3 after upserting a new player", got)
	}
}
