package server

import (
	"context"

	"github.com/rs/zerolog/log"

	"partyhub/internal/countdown"
	"partyhub/internal/game"
	"partyhub/internal/metrics"
	"partyhub/internal/rooms"
)

// handleGameAction routes host-issued control actions. Host validation
// happens here, before anything reaches the session.
func (s *Server) handleGameAction(room *rooms.Room, playerID string, data actionData) {
	if !room.IsHost(playerID) {
		s.Hub.PublishTo(room.Code, playerID, "error", map[string]string{"message": "host only"})
		return
	}
	metrics.ActionsTotal.WithLabelValues(data.Action).Inc()

	switch data.Action {
	case "start_game":
		s.startGame(room, playerID)

	case "end_game":
		s.endGame(room)

	case "next_question":
		room.Runner().DoWait(func() bool {
			t, ok := room.Session().(*game.Trivia)
			if !ok {
				return false
			}
			if !t.NextQuestion() {
				return false
			}
			// Skipping past the last question finishes the session
			// here, not on a tick, so the bookkeeping runs here too.
			if t.Status() == game.StatusFinished {
				s.afterFinish(room, t)
			}
			return true
		})

	case "buzzer_live":
		room.Runner().DoWait(func() bool {
			b, ok := room.Session().(*game.Buzzer)
			if !ok {
				return false
			}
			return b.BuzzerLive()
		})

	case "new_round":
		room.Runner().DoWait(func() bool {
			b, ok := room.Session().(*game.Buzzer)
			if !ok {
				return false
			}
			return b.NewRound()
		})

	case "award_points":
		room.Runner().DoWait(func() bool {
			b, ok := room.Session().(*game.Buzzer)
			if !ok {
				return false
			}
			return b.AwardPoints(data.PlayerID, data.Points)
		})

	default:
		log.Debug().Str("room", room.Code).Str("action", data.Action).Msg("unknown game action")
	}
}

// handlePlayerAction routes in-game player actions into the session via
// the room's single writer.
func (s *Server) handlePlayerAction(room *rooms.Room, playerID string, data actionData) {
	metrics.ActionsTotal.WithLabelValues(data.Action).Inc()

	switch data.Action {
	case "click":
		room.Runner().DoWait(func() bool {
			c, ok := room.Session().(*game.Clicker)
			if !ok {
				return false
			}
			return c.Click(playerID)
		})

	case "buzz":
		room.Runner().DoWait(func() bool {
			switch sess := room.Session().(type) {
			case *game.Trivia:
				return sess.Buzz(playerID)
			case *game.Buzzer:
				return sess.Buzz(playerID)
			}
			return false
		})

	case "answer":
		if data.AnswerIndex == nil {
			return
		}
		idx := *data.AnswerIndex
		room.Runner().DoWait(func() bool {
			t, ok := room.Session().(*game.Trivia)
			if !ok {
				return false
			}
			return t.Answer(playerID, idx)
		})

	default:
		log.Debug().Str("room", room.Code).Str("action", data.Action).Msg("unknown player action")
	}
}

// newSession builds the variant for the room's game type.
func (s *Server) newSession(room *rooms.Room) game.Session {
	switch room.GameType {
	case game.TypeTrivia:
		return game.NewTrivia(room.Code, game.DefaultQuestions(s.Cfg.QuestionTime), s.Clock, s.Hub)
	case game.TypeBuzzer:
		return game.NewBuzzer(room.Code, room.HostID, s.Cfg.GateCountdown, s.Clock, s.Hub)
	default:
		return game.NewClicker(room.Code, s.Cfg.ClickerDuration, s.Hub)
	}
}

// startGame activates a session for the room: all players must be
// ready, and any previous session's timer is cancelled by replacement.
func (s *Server) startGame(room *rooms.Room, hostID string) {
	if room.Status() != rooms.StatusWaiting {
		s.Hub.PublishTo(room.Code, hostID, "error", map[string]string{"message": "game already running"})
		return
	}
	if !room.AllReady() {
		s.Hub.Publish(room.Code, "error", map[string]string{"message": "All players must be ready to start"})
		return
	}

	roster := room.Roster()
	players := make([]game.Player, 0, len(roster))
	for _, p := range roster {
		players = append(players, game.Player{ID: p.ID, Name: p.Name})
	}

	sess := s.newSession(room)
	room.SetStatus(rooms.StatusActive)

	if s.DB != nil {
		if gameID, err := s.DB.CreateGame(room.Code, room.HostID, string(room.GameType)); err != nil {
			log.Warn().Str("room", room.Code).Err(err).Msg("recording game start")
		} else {
			room.SetGameID(gameID)
		}
	}

	room.Runner().DoWait(func() bool {
		sess.Start(players)
		return true
	})

	// The status pre-check makes the terminal transition one-shot: once
	// a host stop or an earlier tick has ended the session, later ticks
	// stop the task without re-running the finish bookkeeping.
	task := countdown.Run(context.Background(), s.Clock, func() bool {
		return room.Runner().DoWait(func() bool {
			if sess.Status().Terminal() {
				return false
			}
			sess.Tick()
			if sess.Status() == game.StatusFinished {
				s.afterFinish(room, sess)
			}
			return !sess.Status().Terminal()
		})
	})
	room.SetSession(sess, task)

	metrics.GamesStarted.WithLabelValues(string(room.GameType)).Inc()
	log.Info().Str("room", room.Code).Str("type", string(room.GameType)).Msg("game started")
}

// endGame is the host-forced end. A buzzer session completes with final
// results; the timed variants stop without them. On an already-terminal
// session it resets the room to the lobby, so a finished room is always
// recoverable by end_game followed by start_game.
func (s *Server) endGame(room *rooms.Room) {
	room.Runner().DoWait(func() bool {
		sess := room.Session()
		if sess == nil {
			return false
		}
		if sess.Status().Terminal() {
			room.SetStatus(rooms.StatusWaiting)
			return true
		}
		if b, ok := sess.(*game.Buzzer); ok {
			if b.Finish() {
				s.afterFinish(room, b)
			}
			return true
		}
		sess.Stop()
		room.SetStatus(rooms.StatusWaiting)
		metrics.GamesEnded.WithLabelValues(string(sess.Type()), "stopped").Inc()
		return true
	})
	room.CancelTask()
}

// afterFinish runs on the room's runner goroutine when a session
// reaches Finished: room bookkeeping, lazy teardown, result recording.
func (s *Server) afterFinish(room *rooms.Room, sess game.Session) {
	room.SetStatus(rooms.StatusFinished)
	s.Rooms.ScheduleCleanup(room.Code)
	metrics.GamesEnded.WithLabelValues(string(sess.Type()), "finished").Inc()

	if s.DB == nil {
		return
	}
	gameID := room.GameID()
	if gameID == "" {
		return
	}
	results := sess.Results()
	go s.recordResults(gameID, results)
}

func (s *Server) recordResults(gameID string, results []game.ScoreCard) {
	if err := s.DB.EndGame(gameID); err != nil {
		log.Warn().Str("game_id", gameID).Err(err).Msg("recording game end")
	}
	for _, card := range results {
		if err := s.DB.AddGameResult(gameID, card.PlayerID, card.Name, card.Score, card.Rank); err != nil {
			log.Warn().Str("game_id", gameID).Str("player", card.PlayerID).Err(err).Msg("recording result")
		}
	}
}
