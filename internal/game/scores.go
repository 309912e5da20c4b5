package game

import "sort"

// ScoreCard is one row of a final ranking.
type ScoreCard struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// scoreTable maps players to scores. Scores only ever grow through add;
// nothing in the core decrements them.
type scoreTable struct {
	order  []string // insertion order, roster first
	names  map[string]string
	scores map[string]int
}

func newScoreTable(players []Player) *scoreTable {
	t := &scoreTable{
		names:  make(map[string]string, len(players)),
		scores: make(map[string]int, len(players)),
	}
	for _, p := range players {
		t.order = append(t.order, p.ID)
		t.names[p.ID] = p.Name
		t.scores[p.ID] = 0
	}
	return t
}

func (t *scoreTable) has(id string) bool {
	_, ok := t.scores[id]
	return ok
}

func (t *scoreTable) name(id string) string {
	if n, ok := t.names[id]; ok {
		return n
	}
	return id
}

// add increments a player's score and returns the new total. Unknown
// players are admitted with the id as display name, matching the manual
// host-award path.
func (t *scoreTable) add(id string, points int) int {
	if !t.has(id) {
		t.order = append(t.order, id)
		t.names[id] = id
		t.scores[id] = 0
	}
	t.scores[id] += points
	return t.scores[id]
}

// snapshot copies the table for broadcast payloads.
func (t *scoreTable) snapshot() map[string]int {
	out := make(map[string]int, len(t.scores))
	for id, s := range t.scores {
		out[id] = s
	}
	return out
}

// ranked returns score cards sorted by descending score. Ties keep
// insertion order.
func (t *scoreTable) ranked() []ScoreCard {
	cards := make([]ScoreCard, 0, len(t.order))
	for _, id := range t.order {
		cards = append(cards, ScoreCard{
			PlayerID: id,
			Name:     t.name(id),
			Score:    t.scores[id],
		})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Score > cards[j].Score
	})
	for i := range cards {
		cards[i].Rank = i + 1
	}
	return cards
}
