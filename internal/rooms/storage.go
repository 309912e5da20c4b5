package rooms

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"partyhub/internal/game"
	"partyhub/internal/metrics"
)

const staleTTL = 1 * time.Hour

var playerColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
}

// RandomColor picks a display color for a joining player.
func RandomColor() string {
	return playerColors[rand.Intn(len(playerColors))]
}

// Store is the room registry. It satisfies the storage contract the
// game core consumes: get/list/upsert-player/remove-player/publish,
// with read-your-writes per room (rooms are mutated in place under
// their own lock).
type Store struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	timers map[string]clockwork.Timer

	pub   game.Publisher
	clock clockwork.Clock
	grace time.Duration
}

func NewStore(pub game.Publisher, clock clockwork.Clock, grace time.Duration) *Store {
	s := &Store{
		rooms:  make(map[string]*Room),
		timers: make(map[string]clockwork.Timer),
		pub:    pub,
		clock:  clock,
		grace:  grace,
	}
	go s.sweepStale()
	return s
}

// Create registers a new room with the given host. A custom code is
// honored when free; otherwise codes are generated until unique.
func (s *Store) Create(gameType game.Type, host Player, customCode string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customCode != "" {
		if _, exists := s.rooms[customCode]; exists {
			return nil, fmt.Errorf("room code %s already in use", customCode)
		}
		room := newRoom(customCode, gameType, host, s.clock.Now())
		s.rooms[customCode] = room
		metrics.RoomsActive.Set(float64(len(s.rooms)))
		return room, nil
	}

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := s.rooms[code]; exists {
			continue
		}
		room := newRoom(code, gameType, host, s.clock.Now())
		s.rooms[code] = room
		metrics.RoomsActive.Set(float64(len(s.rooms)))
		return room, nil
	}
	return nil, fmt.Errorf("failed to generate unique room code after 10 attempts")
}

func (s *Store) Get(code string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[code]
}

func (s *Store) List() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		list = append(list, r)
	}
	return list
}

// UpsertPlayer updates or adds a player in a room's roster.
func (s *Store) UpsertPlayer(code string, p Player) error {
	room := s.Get(code)
	if room == nil {
		return fmt.Errorf("room %s not found", code)
	}
	room.Upsert(p)
	return nil
}

// RemovePlayer drops a player from a room. An emptied room is
// scheduled for lazy teardown rather than removed synchronously, to
// tolerate transient disconnects.
func (s *Store) RemovePlayer(code, playerID string) error {
	room := s.Get(code)
	if room == nil {
		return fmt.Errorf("room %s not found", code)
	}
	_, empty := room.Leave(playerID)
	if empty {
		s.ScheduleCleanup(code)
	}
	return nil
}

// Publish delegates to the event bus; fire-and-forget per the bus
// contract.
func (s *Store) Publish(code, event string, payload any) {
	s.pub.Publish(code, event, payload)
}

// Remove tears a room down immediately.
func (s *Store) Remove(code string) {
	s.mu.Lock()
	room := s.rooms[code]
	delete(s.rooms, code)
	if timer, ok := s.timers[code]; ok {
		timer.Stop()
		delete(s.timers, code)
	}
	metrics.RoomsActive.Set(float64(len(s.rooms)))
	s.mu.Unlock()

	if room != nil {
		room.teardown()
	}
}

// ScheduleCleanup arms (or re-arms) the grace-period teardown for a
// room whose roster emptied or whose game finished. The condition is
// re-checked when the timer fires, so a re-join in the meantime keeps
// the room alive.
func (s *Store) ScheduleCleanup(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		return
	}
	if timer, ok := s.timers[code]; ok {
		timer.Stop()
	}
	s.timers[code] = s.clock.AfterFunc(s.grace, func() {
		s.cleanupFire(code)
	})
}

func (s *Store) cleanupFire(code string) {
	s.mu.Lock()
	delete(s.timers, code)
	room := s.rooms[code]
	if room == nil {
		s.mu.Unlock()
		return
	}
	if !room.Empty() && room.Status() != StatusFinished {
		s.mu.Unlock()
		return
	}
	delete(s.rooms, code)
	metrics.RoomsActive.Set(float64(len(s.rooms)))
	s.mu.Unlock()

	log.Info().Str("room", code).Msg("room torn down after grace period")
	room.teardown()
}

func (s *Store) sweepStale() {
	ticker := s.clock.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.Chan() {
		s.mu.Lock()
		now := s.clock.Now()
		var stale []*Room
		for code, room := range s.rooms {
			if now.Sub(room.CreatedAt) > staleTTL {
				stale = append(stale, room)
				delete(s.rooms, code)
			}
		}
		metrics.RoomsActive.Set(float64(len(s.rooms)))
		s.mu.Unlock()

		for _, room := range stale {
			log.Info().Str("room", room.Code).Msg("stale room swept")
			room.teardown()
		}
	}
}
