// Package game implements the per-room session state machines for the
// three game variants: clicker, trivia, and buzzer.
//
// Sessions are plain synchronous state machines. They are not safe for
// concurrent use on their own; every mutation (client actions and
// scheduler ticks alike) must run on the owning room's runner goroutine,
// which yields a total order for scoring and buzz ranks.
package game

// Type identifies a game variant. The set is closed.
type Type string

const (
	TypeClicker Type = "clicker"
	TypeTrivia  Type = "trivia"
	TypeBuzzer  Type = "buzzer"
)

// ParseType validates a client-supplied game type.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeClicker, TypeTrivia, TypeBuzzer:
		return Type(s), true
	}
	return "", false
}

// Status is the session lifecycle state. Finished and Stopped are
// terminal: once reached, every further action or tick is a no-op.
type Status int

const (
	StatusIdle Status = iota
	StatusActive
	StatusFinished
	StatusStopped
)

func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusStopped
}

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusActive:
		return "active"
	case StatusFinished:
		return "finished"
	case StatusStopped:
		return "stopped"
	}
	return "unknown"
}

// Player is the roster snapshot a session is started with.
type Player struct {
	ID   string `json:"player_id"`
	Name string `json:"name"`
}

// Publisher fans an event out to a room's connections. Implemented by
// the WebSocket hub; sessions never own connections.
type Publisher interface {
	Publish(roomCode, event string, payload any)
	PublishTo(roomCode, playerID, event string, payload any)
}

// Session is the common surface of the three variants. Variant-specific
// actions (Click, Buzz, Answer, ...) are reached by type switch.
type Session interface {
	Type() Type
	Status() Status

	// Start activates the session for the given roster. The caller has
	// already enforced the "all players ready" precondition.
	Start(players []Player)

	// Tick drives one second of countdown-based phase transitions.
	Tick()

	// Stop is the host-forced end. Idempotent once terminal.
	Stop()

	// Results returns the final ranking. Valid only once terminal.
	Results() []ScoreCard
}
