// Package rooms owns room state: the roster, room status, the active
// game session, and the registry that tracks every live room.
package rooms

import (
	"fmt"
	"sync"
	"time"

	"partyhub/internal/countdown"
	"partyhub/internal/game"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

type Player struct {
	ID        string    `json:"player_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsHost    bool      `json:"is_host"`
	IsReady   bool      `json:"is_ready"`
	Connected bool      `json:"connected"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Room is one isolated game instance. Roster and status mutation is
// serialized by the room mutex; session mutation is serialized by the
// room's runner goroutine.
type Room struct {
	Code      string
	GameType  game.Type
	HostID    string
	CreatedAt time.Time

	mu      sync.Mutex
	status  Status
	players []Player
	session game.Session
	task    *countdown.Task
	gameID  string

	runner *Runner
}

func newRoom(code string, gameType game.Type, host Player, now time.Time) *Room {
	return &Room{
		Code:      code,
		GameType:  gameType,
		HostID:    host.ID,
		CreatedAt: now,
		status:    StatusWaiting,
		players:   []Player{host},
		runner:    NewRunner(),
	}
}

// Runner returns the room's single-writer actor. All session mutation
// must go through it.
func (r *Room) Runner() *Runner {
	return r.runner
}

func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Room) SetStatus(s Status) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// Join appends a player to the roster. Duplicate IDs are rejected so a
// player is never listed twice.
func (r *Room) Join(p Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.players {
		if existing.ID == p.ID {
			return fmt.Errorf("player %s already in room %s", p.ID, r.Code)
		}
	}
	r.players = append(r.players, p)
	return nil
}

// Leave removes a player. Returns whether the player was present and
// whether the roster is now empty.
func (r *Room) Leave(playerID string) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.players {
		if p.ID == playerID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return true, len(r.players) == 0
		}
	}
	return false, len(r.players) == 0
}

// Upsert updates a player in place or appends them.
func (r *Room) Upsert(p Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.players {
		if existing.ID == p.ID {
			r.players[i] = p
			return
		}
	}
	r.players = append(r.players, p)
}

func (r *Room) SetReady(playerID string, ready bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.players {
		if r.players[i].ID == playerID {
			r.players[i].IsReady = ready
			return true
		}
	}
	return false
}

func (r *Room) SetConnected(playerID string, connected bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.players {
		if r.players[i].ID == playerID {
			r.players[i].Connected = connected
			return true
		}
	}
	return false
}

// AllReady reports whether every player is ready. An empty roster is
// never ready.
func (r *Room) AllReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.players) == 0 {
		return false
	}
	for _, p := range r.players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

// Roster returns a copy of the ordered player list. The snapshot may be
// slightly stale relative to concurrent mutation; every mutation
// broadcasts its own post-mutation snapshot.
func (r *Room) Roster() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

func (r *Room) Player(playerID string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.ID == playerID {
			return p, true
		}
	}
	return Player{}, false
}

func (r *Room) IsHost(playerID string) bool {
	return playerID == r.HostID
}

func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0
}

func (r *Room) Session() game.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// SetSession installs a new session and its timer task, cancelling any
// previous task so a replaced session cannot tick again.
func (r *Room) SetSession(s game.Session, task *countdown.Task) {
	r.mu.Lock()
	old := r.task
	r.session = s
	r.task = task
	r.mu.Unlock()
	if old != nil {
		old.Cancel()
	}
}

func (r *Room) CancelTask() {
	r.mu.Lock()
	task := r.task
	r.mu.Unlock()
	if task != nil {
		task.Cancel()
	}
}

func (r *Room) GameID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gameID
}

func (r *Room) SetGameID(id string) {
	r.mu.Lock()
	r.gameID = id
	r.mu.Unlock()
}

// teardown releases the room's resources on removal from the registry.
func (r *Room) teardown() {
	r.CancelTask()
	r.runner.Close()
}
