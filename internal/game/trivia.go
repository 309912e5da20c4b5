package game

import (
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Per-question round sub-state.
type triviaRound int

const (
	roundNotStarted triviaRound = iota
	roundAccepting              // question shown, buzzes open
	roundLocked                 // first buzzer holds the answer lock
	roundResolved               // answered or timed out, waiting to advance
)

// Advance delays after a round resolves, in ticks.
const (
	answeredAdvanceTicks = 3
	timeoutAdvanceTicks  = 2
)

// Trivia runs a fixed ordered question sequence. Every player may buzz
// once per question; the first buzz locks the round and only that
// player may answer. Later buzzers occupy ranks but cannot score.
type Trivia struct {
	roomCode string
	pub      Publisher
	clock    clockwork.Clock

	questions []Question
	qIndex    int

	status     Status
	round      triviaRound
	remaining  int
	advanceIn  int
	lockHolder string

	buzzes *buzzLog
	scores *scoreTable
}

func NewTrivia(roomCode string, questions []Question, clock clockwork.Clock, pub Publisher) *Trivia {
	return &Trivia{
		roomCode:  roomCode,
		pub:       pub,
		clock:     clock,
		questions: questions,
		status:    StatusIdle,
		round:     roundNotStarted,
		buzzes:    newBuzzLog(),
	}
}

func (t *Trivia) Type() Type     { return TypeTrivia }
func (t *Trivia) Status() Status { return t.status }

func (t *Trivia) Start(players []Player) {
	if t.status != StatusIdle {
		return
	}
	t.status = StatusActive
	t.qIndex = 0
	t.scores = newScoreTable(players)

	t.pub.Publish(t.roomCode, EventGameStarted, GameStartedPayload{
		GameType:       string(TypeTrivia),
		TotalQuestions: len(t.questions),
		Players:        players,
	})
	t.presentQuestion()
}

func (t *Trivia) current() Question {
	return t.questions[t.qIndex]
}

// presentQuestion enters Accepting for the question at qIndex, or
// finishes the game when the sequence is exhausted.
func (t *Trivia) presentQuestion() {
	if t.qIndex >= len(t.questions) {
		t.finish()
		return
	}
	q := t.current()
	t.round = roundAccepting
	t.lockHolder = ""
	t.remaining = q.TimeLimit
	t.advanceIn = 0
	t.buzzes.reset(t.clock.Now())

	t.pub.Publish(t.roomCode, EventNewQuestion, NewQuestionPayload{
		QuestionNumber: t.qIndex + 1,
		TotalQuestions: len(t.questions),
		Question:       q.Text,
		Options:        q.Options,
		TimeLimit:      q.TimeLimit,
	})
	t.pub.Publish(t.roomCode, EventBuzzerCleared, struct{}{})
}

// Buzz records a buzz attempt. Buzzes stay open after the round locks;
// later buzzers are ranked but never gain the answer lock.
func (t *Trivia) Buzz(playerID string) bool {
	if t.status != StatusActive || t.round == roundNotStarted || t.round == roundResolved {
		return false
	}
	rec, ok := t.buzzes.record(playerID, t.scores.name(playerID), t.clock.Now())
	if !ok {
		return false
	}
	if t.round == roundAccepting {
		t.round = roundLocked
		t.lockHolder = playerID
	}

	t.pub.Publish(t.roomCode, EventPlayerBuzzed, PlayerBuzzedPayload{
		PlayerID:     rec.PlayerID,
		PlayerName:   rec.PlayerName,
		Rank:         rec.Rank,
		SinceOpenMs:  rec.SinceOpenMs,
		SinceFirstMs: rec.SinceFirstMs,
		TotalBuzzed:  t.buzzes.len(),
		BuzzTable:    t.buzzes.table(),
	})
	return true
}

// Answer resolves the round. Only the lock holder may answer, and only
// while the round is locked.
func (t *Trivia) Answer(playerID string, answerIndex int) bool {
	if t.status != StatusActive || t.round != roundLocked || playerID != t.lockHolder {
		return false
	}
	q := t.current()
	if answerIndex < 0 || answerIndex >= len(q.Options) {
		return false
	}

	isCorrect := answerIndex == q.CorrectAnswer
	points := 0
	if isCorrect {
		points = answerPoints(q.TimeLimit, t.remaining)
		t.scores.add(playerID, points)
	}

	t.round = roundResolved
	t.advanceIn = answeredAdvanceTicks

	t.pub.Publish(t.roomCode, EventAnswerResult, AnswerResultPayload{
		PlayerID:          playerID,
		PlayerName:        t.scores.name(playerID),
		AnswerIndex:       answerIndex,
		IsCorrect:         isCorrect,
		CorrectAnswer:     q.CorrectAnswer,
		CorrectAnswerText: q.Options[q.CorrectAnswer],
		PointsAwarded:     points,
		Scores:            t.scores.snapshot(),
	})
	return true
}

// answerPoints rewards faster answers: 5 points off per elapsed second,
// floored at 50.
func answerPoints(timeLimit, timeRemaining int) int {
	points := 100 - (timeLimit-timeRemaining)*5
	if points < 50 {
		points = 50
	}
	return points
}

// NextQuestion is the host skip: abandon the current round and advance.
func (t *Trivia) NextQuestion() bool {
	if t.status != StatusActive {
		return false
	}
	t.qIndex++
	t.presentQuestion()
	return true
}

func (t *Trivia) Tick() {
	if t.status != StatusActive {
		return
	}
	switch t.round {
	case roundAccepting, roundLocked:
		t.pub.Publish(t.roomCode, EventTick, TickPayload{
			TimeRemaining:  t.remaining,
			QuestionNumber: t.qIndex + 1,
		})
		t.remaining--
		if t.remaining <= 0 {
			t.timeUp()
		}
	case roundResolved:
		t.advanceIn--
		if t.advanceIn <= 0 {
			t.qIndex++
			t.presentQuestion()
		}
	}
}

func (t *Trivia) timeUp() {
	q := t.current()
	t.round = roundResolved
	t.advanceIn = timeoutAdvanceTicks

	t.pub.Publish(t.roomCode, EventTimeUp, TimeUpPayload{
		CorrectAnswer:     q.CorrectAnswer,
		CorrectAnswerText: q.Options[q.CorrectAnswer],
	})
}

func (t *Trivia) finish() {
	t.status = StatusFinished
	t.round = roundNotStarted

	cards := t.scores.ranked()
	var winner *ScoreCard
	if len(cards) > 0 {
		winner = &cards[0]
	}
	log.Info().Str("room", t.roomCode).Msg("trivia game finished")
	t.pub.Publish(t.roomCode, EventGameFinished, GameFinishedPayload{
		GameType:    string(TypeTrivia),
		Winner:      winner,
		FinalScores: cards,
	})
}

func (t *Trivia) Stop() {
	if t.status.Terminal() {
		return
	}
	t.status = StatusStopped
	t.pub.Publish(t.roomCode, EventGameStopped, GameStoppedPayload{GameType: string(TypeTrivia)})
}

func (t *Trivia) Results() []ScoreCard {
	if !t.status.Terminal() || t.scores == nil {
		return nil
	}
	return t.scores.ranked()
}
