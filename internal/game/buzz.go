package game

import "time"

// BuzzRecord captures one accepted buzz. Records are appended in
// mutation order and never reordered; Rank is the 1-based insertion
// position within the round.
type BuzzRecord struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	BuzzedAt   string `json:"buzzed_at"`

	// SinceOpenMs is the elapsed time since the buzz window opened
	// (question start for trivia, gate activation for buzzer).
	SinceOpenMs int64 `json:"since_open_ms"`

	// SinceFirstMs is the gap behind the round's first buzz, zero for
	// the first buzz itself.
	SinceFirstMs int64 `json:"since_first_ms"`

	Rank int `json:"rank"`
}

// buzzLog is the per-round buzz list: at most one accepted buzz per
// player per round.
type buzzLog struct {
	records []BuzzRecord
	buzzed  map[string]bool
	openAt  time.Time
	firstAt time.Time
}

func newBuzzLog() *buzzLog {
	return &buzzLog{buzzed: make(map[string]bool)}
}

// reset clears the round state and marks when the buzz window opened.
func (b *buzzLog) reset(openAt time.Time) {
	b.records = b.records[:0]
	b.buzzed = make(map[string]bool)
	b.openAt = openAt
	b.firstAt = time.Time{}
}

// record appends a buzz for the player. Returns false for a duplicate
// buzz in the same round.
func (b *buzzLog) record(id, name string, now time.Time) (BuzzRecord, bool) {
	if b.buzzed[id] {
		return BuzzRecord{}, false
	}
	b.buzzed[id] = true

	rec := BuzzRecord{
		PlayerID:    id,
		PlayerName:  name,
		BuzzedAt:    now.UTC().Format(time.RFC3339Nano),
		SinceOpenMs: now.Sub(b.openAt).Milliseconds(),
		Rank:        len(b.records) + 1,
	}
	if b.firstAt.IsZero() {
		b.firstAt = now
	} else {
		rec.SinceFirstMs = now.Sub(b.firstAt).Milliseconds()
	}
	b.records = append(b.records, rec)
	return rec, true
}

func (b *buzzLog) len() int {
	return len(b.records)
}

// table returns a copy of the round's buzz list for broadcasting.
func (b *buzzLog) table() []BuzzRecord {
	out := make([]BuzzRecord, len(b.records))
	copy(out, b.records)
	return out
}
