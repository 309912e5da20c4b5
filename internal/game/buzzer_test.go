package game

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func newTestBuzzer(t *testing.T) (*Buzzer, *recorder, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	rec := &recorder{}
	b := NewBuzzer("AB12", "host1", 3, clock, rec)
	return b, rec, clock
}

// armGate walks the gate through its countdown until buzzers go live.
func armGate(t *testing.T, b *Buzzer) {
	t.Helper()
	if !b.BuzzerLive() {
		t.Fatal("buzzer_live rejected")
	}
	for i := 0; i < 3; i++ {
		b.Tick()
	}
}

func TestBuzzer_StartOpensFirstRound(t *testing.T) {
	b, rec, _ := newTestBuzzer(t)
	b.Start(testPlayers())

	if b.Status() != StatusActive {
		t.Fatalf("status = %v, want active", b.Status())
	}
	ev, ok := rec.last(EventNewRound)
	if !ok {
		t.Fatal("missing new_round on start")
	}
	round := ev.payload.(NewRoundPayload)
	if round.RoundNumber != 1 || round.BuzzerStatus != "disabled" {
		t.Errorf("new_round payload = %+v", round)
	}
}

func TestBuzzer_EarlyBuzzBlocked(t *testing.T) {
	b, rec, _ := newTestBuzzer(t)
	b.Start(testPlayers())

	if b.Buzz("p1") {
		t.Error("buzz with gate disabled must fail")
	}
	ev, ok := rec.last(EventBuzzBlocked)
	if !ok {
		t.Fatal("missing buzz_blocked")
	}
	blocked := ev.payload.(BuzzBlockedPayload)
	if blocked.PlayerID != "p1" || blocked.Reason != BlockReasonEarly {
		t.Errorf("buzz_blocked payload = %+v", blocked)
	}

	// Still blocked during the countdown.
	b.BuzzerLive()
	b.Tick()
	if b.Buzz("p1") {
		t.Error("buzz during countdown must fail")
	}
	if got := rec.count(EventBuzzBlocked); got != 2 {
		t.Errorf("buzz_blocked events = %d, want 2", got)
	}
	if rec.count(EventPlayerBuzzed) != 0 {
		t.Error("blocked buzzes must not be recorded")
	}
}

func TestBuzzer_CountdownGoesToHostOnly(t *testing.T) {
	b, rec, _ := newTestBuzzer(t)
	b.Start(testPlayers())

	b.BuzzerLive()
	ev, ok := rec.last(EventBuzzerCountdownStart)
	if !ok {
		t.Fatal("missing buzzer_countdown_start")
	}
	if ev.target != "host1" {
		t.Errorf("countdown start target = %q, want host1", ev.target)
	}

	want := []int{3, 2, 1}
	for range want {
		b.Tick()
	}
	seen := make([]int, 0, 3)
	for _, e := range rec.events {
		if e.name == EventBuzzerCountdownTick {
			if e.target != "host1" {
				t.Errorf("countdown tick target = %q, want host1", e.target)
			}
			seen = append(seen, e.payload.(BuzzerCountdownPayload).Countdown)
		}
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("countdown values = %v, want %v", seen, want)
		}
	}
	if rec.count(EventBuzzersLive) != 1 {
		t.Error("missing buzzers_live after countdown")
	}
}

func TestBuzzer_BuzzerLiveOnlyFromDisabled(t *testing.T) {
	b, _, _ := newTestBuzzer(t)
	b.Start(testPlayers())

	if !b.BuzzerLive() {
		t.Fatal("first buzzer_live rejected")
	}
	if b.BuzzerLive() {
		t.Error("buzzer_live during countdown should be rejected")
	}
	for i := 0; i < 3; i++ {
		b.Tick()
	}
	if b.BuzzerLive() {
		t.Error("buzzer_live while already live should be rejected")
	}
}

func TestBuzzer_BuzzRanksAndGaps(t *testing.T) {
	b, rec, clock := newTestBuzzer(t)
	b.Start(testPlayers())
	armGate(t, b)

	clock.Advance(120 * time.Millisecond)
	if !b.Buzz("p1") {
		t.Fatal("live buzz rejected")
	}
	clock.Advance(80 * time.Millisecond)
	if !b.Buzz("p2") {
		t.Fatal("second live buzz rejected")
	}
	if b.Buzz("p1") {
		t.Error("duplicate buzz in the same round should be rejected")
	}

	ev, _ := rec.last(EventPlayerBuzzed)
	buzzed := ev.payload.(PlayerBuzzedPayload)
	if buzzed.PlayerID != "p2" || buzzed.Rank != 2 {
		t.Errorf("second buzz = %+v, want p2 rank 2", buzzed)
	}
	if buzzed.SinceOpenMs != 200 || buzzed.SinceFirstMs != 80 {
		t.Errorf("gaps = open %dms first %dms, want 200/80", buzzed.SinceOpenMs, buzzed.SinceFirstMs)
	}
}

func TestBuzzer_TickOutsideCountdownIsNoop(t *testing.T) {
	b, rec, _ := newTestBuzzer(t)
	b.Start(testPlayers())
	armGate(t, b)

	before := len(rec.events)
	b.Tick()
	if len(rec.events) != before {
		t.Error("tick with a live gate must not publish")
	}
}

func TestBuzzer_AwardPoints(t *testing.T) {
	b, rec, _ := newTestBuzzer(t)
	b.Start(testPlayers())

	if !b.AwardPoints("p1", 10) {
		t.Fatal("award rejected")
	}
	if !b.AwardPoints("p1", 5) {
		t.Fatal("second award rejected")
	}
	if b.AwardPoints("p1", -5) {
		t.Error("negative award should be rejected")
	}

	ev, _ := rec.last(EventPointsAwarded)
	award := ev.payload.(PointsAwardedPayload)
	if award.NewTotal != 15 {
		t.Errorf("total = %d, want 15", award.NewTotal)
	}
}

func TestBuzzer_NewRoundResetsGateAndBuzzes(t *testing.T) {
	b, rec, _ := newTestBuzzer(t)
	b.Start(testPlayers())
	armGate(t, b)
	b.Buzz("p1")

	if !b.NewRound() {
		t.Fatal("new_round rejected")
	}
	ev, _ := rec.last(EventNewRound)
	if got := ev.payload.(NewRoundPayload).RoundNumber; got != 2 {
		t.Errorf("round = %d, want 2", got)
	}

	// Gate returns to disabled; a round-2 buzz from p1 needs a fresh arm.
	if b.Buzz("p1") {
		t.Error("buzz after new_round must wait for the gate")
	}
	armGate(t, b)
	if !b.Buzz("p1") {
		t.Error("p1 should be able to buzz again in the new round")
	}
}

func TestBuzzer_FinishOnce(t *testing.T) {
	b, rec, _ := newTestBuzzer(t)
	b.Start(testPlayers())
	b.NewRound()
	b.AwardPoints("p2", 20)

	if !b.Finish() {
		t.Fatal("finish rejected")
	}
	if b.Finish() {
		t.Error("second finish should report false")
	}
	if got := rec.count(EventGameFinished); got != 1 {
		t.Errorf("game_finished events = %d, want 1", got)
	}

	ev, _ := rec.last(EventGameFinished)
	payload := ev.payload.(GameFinishedPayload)
	if payload.Winner == nil || payload.Winner.PlayerID != "p2" {
		t.Errorf("winner = %+v, want p2", payload.Winner)
	}
	if payload.TotalRounds != 2 {
		t.Errorf("total rounds = %d, want 2", payload.TotalRounds)
	}

	// Terminal state rejects everything that mutates.
	b.Stop()
	if rec.count(EventGameStopped) != 0 {
		t.Error("stop after finish must be a no-op")
	}
	if b.NewRound() || b.BuzzerLive() || b.AwardPoints("p1", 1) {
		t.Error("mutations after finish must be rejected")
	}
}
