package game

import "github.com/rs/zerolog/log"

// Clicker is the button-mash race: a single round of fixed duration,
// one point per click, ranking by click count.
type Clicker struct {
	roomCode  string
	pub       Publisher
	duration  int
	remaining int
	status    Status
	scores    *scoreTable
}

func NewClicker(roomCode string, duration int, pub Publisher) *Clicker {
	return &Clicker{
		roomCode: roomCode,
		pub:      pub,
		duration: duration,
		status:   StatusIdle,
	}
}

func (c *Clicker) Type() Type     { return TypeClicker }
func (c *Clicker) Status() Status { return c.status }

func (c *Clicker) Start(players []Player) {
	if c.status != StatusIdle {
		return
	}
	c.status = StatusActive
	c.remaining = c.duration
	c.scores = newScoreTable(players)

	c.pub.Publish(c.roomCode, EventGameStarted, GameStartedPayload{
		GameType: string(TypeClicker),
		Duration: c.duration,
		Players:  players,
	})
}

// Click registers one click for the player. Rejected while inactive or
// for players not in the starting roster.
func (c *Clicker) Click(playerID string) bool {
	if c.status != StatusActive || !c.scores.has(playerID) {
		return false
	}
	total := c.scores.add(playerID, 1)

	c.pub.Publish(c.roomCode, EventClickRegistered, ClickRegisteredPayload{
		PlayerID: playerID,
		Count:    total,
		Scores:   c.scores.snapshot(),
	})
	return true
}

func (c *Clicker) Tick() {
	if c.status != StatusActive {
		return
	}
	c.pub.Publish(c.roomCode, EventTick, TickPayload{
		TimeRemaining: c.remaining,
		Scores:        c.scores.snapshot(),
	})
	c.remaining--
	if c.remaining <= 0 {
		c.finish()
	}
}

func (c *Clicker) finish() {
	c.status = StatusFinished
	c.remaining = 0

	cards := c.scores.ranked()
	var winner *ScoreCard
	if len(cards) > 0 {
		winner = &cards[0]
	}
	log.Info().Str("room", c.roomCode).Msg("clicker game finished")
	c.pub.Publish(c.roomCode, EventGameFinished, GameFinishedPayload{
		GameType:    string(TypeClicker),
		Winner:      winner,
		FinalScores: cards,
	})
}

func (c *Clicker) Stop() {
	if c.status.Terminal() {
		return
	}
	c.status = StatusStopped
	c.pub.Publish(c.roomCode, EventGameStopped, GameStoppedPayload{GameType: string(TypeClicker)})
}

func (c *Clicker) Results() []ScoreCard {
	if !c.status.Terminal() || c.scores == nil {
		return nil
	}
	return c.scores.ranked()
}
