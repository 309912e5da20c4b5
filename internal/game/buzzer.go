package game

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Buzzer gate sub-state. Buzzes are accepted only while the gate is
// live; that is the variant's core anti-cheat invariant.
type gateState string

const (
	gateDisabled  gateState = "disabled"
	gateCountdown gateState = "countdown"
	gateLive      gateState = "live"
)

// BlockReasonEarly is the rejection reason for a buzz before the gate
// goes live.
const BlockReasonEarly = "early_buzz"

// Buzzer is the host-paced read-aloud variant: no question bank, no
// fixed schedule. The host arms the gate, players race to buzz, and the
// host awards points manually.
type Buzzer struct {
	roomCode string
	hostID   string
	pub      Publisher
	clock    clockwork.Clock

	status        Status
	round         int
	gate          gateState
	armSeconds    int
	gateRemaining int
	liveAt        time.Time

	buzzes *buzzLog
	scores *scoreTable
}

func NewBuzzer(roomCode, hostID string, gateCountdown int, clock clockwork.Clock, pub Publisher) *Buzzer {
	return &Buzzer{
		roomCode:   roomCode,
		hostID:     hostID,
		pub:        pub,
		clock:      clock,
		status:     StatusIdle,
		gate:       gateDisabled,
		armSeconds: gateCountdown,
		buzzes:     newBuzzLog(),
	}
}

func (b *Buzzer) Type() Type     { return TypeBuzzer }
func (b *Buzzer) Status() Status { return b.status }

func (b *Buzzer) Start(players []Player) {
	if b.status != StatusIdle {
		return
	}
	b.status = StatusActive
	b.round = 0
	b.scores = newScoreTable(players)

	b.pub.Publish(b.roomCode, EventGameStarted, GameStartedPayload{
		GameType: string(TypeBuzzer),
		Players:  players,
	})
	b.NewRound()
}

// NewRound clears the buzz list and returns the gate to disabled.
func (b *Buzzer) NewRound() bool {
	if b.status != StatusActive {
		return false
	}
	b.round++
	b.gate = gateDisabled
	b.gateRemaining = 0
	b.liveAt = time.Time{}
	b.buzzes.reset(time.Time{})

	b.pub.Publish(b.roomCode, EventNewRound, NewRoundPayload{
		RoundNumber:  b.round,
		BuzzerStatus: string(gateDisabled),
		Scores:       b.scores.snapshot(),
	})
	b.pub.Publish(b.roomCode, EventBuzzerCleared, struct{}{})
	return true
}

// BuzzerLive starts the arming countdown. Rejected unless the gate is
// currently disabled.
func (b *Buzzer) BuzzerLive() bool {
	if b.status != StatusActive || b.gate != gateDisabled {
		return false
	}
	b.gate = gateCountdown
	b.gateRemaining = b.armSeconds

	b.pub.PublishTo(b.roomCode, b.hostID, EventBuzzerCountdownStart, BuzzerCountdownPayload{
		Countdown: b.armSeconds,
	})
	return true
}

// Buzz handles a buzz attempt. Early buzzes (gate not live) are blocked
// and announced; duplicates within a round are silently rejected.
func (b *Buzzer) Buzz(playerID string) bool {
	if b.status != StatusActive {
		return false
	}
	if b.gate != gateLive {
		log.Warn().Str("room", b.roomCode).Str("player", playerID).
			Str("gate", string(b.gate)).Msg("blocked early buzz")
		b.pub.Publish(b.roomCode, EventBuzzBlocked, BuzzBlockedPayload{
			PlayerID: playerID,
			Reason:   BlockReasonEarly,
		})
		return false
	}

	rec, ok := b.buzzes.record(playerID, b.scores.name(playerID), b.clock.Now())
	if !ok {
		return false
	}
	b.pub.Publish(b.roomCode, EventPlayerBuzzed, PlayerBuzzedPayload{
		PlayerID:     rec.PlayerID,
		PlayerName:   rec.PlayerName,
		Rank:         rec.Rank,
		SinceOpenMs:  rec.SinceOpenMs,
		SinceFirstMs: rec.SinceFirstMs,
		TotalBuzzed:  b.buzzes.len(),
		BuzzTable:    b.buzzes.table(),
	})
	return true
}

// AwardPoints is the host's manual scoring. Allowed any time the
// session is active, any number of times per round.
func (b *Buzzer) AwardPoints(playerID string, points int) bool {
	if b.status != StatusActive || points < 0 {
		return false
	}
	total := b.scores.add(playerID, points)

	b.pub.Publish(b.roomCode, EventPointsAwarded, PointsAwardedPayload{
		PlayerID:      playerID,
		PlayerName:    b.scores.name(playerID),
		PointsAwarded: points,
		NewTotal:      total,
		Scores:        b.scores.snapshot(),
	})
	return true
}

func (b *Buzzer) Tick() {
	if b.status != StatusActive || b.gate != gateCountdown {
		return
	}
	b.pub.PublishTo(b.roomCode, b.hostID, EventBuzzerCountdownTick, BuzzerCountdownPayload{
		Countdown: b.gateRemaining,
	})
	b.gateRemaining--
	if b.gateRemaining <= 0 {
		b.goLive()
	}
}

func (b *Buzzer) goLive() {
	b.gate = gateLive
	b.liveAt = b.clock.Now()
	b.buzzes.reset(b.liveAt)

	b.pub.Publish(b.roomCode, EventBuzzersLive, BuzzersLivePayload{
		ActivatedAt: b.liveAt.UTC().Format(time.RFC3339Nano),
	})
}

// Finish is the buzzer variant's completion: the host calls the game
// and cumulative scores become the final ranking.
func (b *Buzzer) Finish() bool {
	if b.status.Terminal() {
		return false
	}
	b.status = StatusFinished

	cards := b.scores.ranked()
	var winner *ScoreCard
	if len(cards) > 0 {
		winner = &cards[0]
	}
	log.Info().Str("room", b.roomCode).Int("rounds", b.round).Msg("buzzer game finished")
	b.pub.Publish(b.roomCode, EventGameFinished, GameFinishedPayload{
		GameType:    string(TypeBuzzer),
		Winner:      winner,
		FinalScores: cards,
		TotalRounds: b.round,
	})
	return true
}

func (b *Buzzer) Stop() {
	if b.status.Terminal() {
		return
	}
	b.status = StatusStopped
	b.pub.Publish(b.roomCode, EventGameStopped, GameStoppedPayload{GameType: string(TypeBuzzer)})
}

func (b *Buzzer) Results() []ScoreCard {
	if !b.status.Terminal() || b.scores == nil {
		return nil
	}
	return b.scores.ranked()
}
