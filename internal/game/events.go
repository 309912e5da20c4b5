package game

// Event names broadcast by sessions. Payloads carry only primitive,
// JSON-ready values: timestamps are pre-formatted strings or
// millisecond counts, tables are ordered slices.
const (
	EventGameStarted          = "game_started"
	EventNewRound             = "new_round"
	EventNewQuestion          = "new_question"
	EventBuzzerCleared        = "buzzer_cleared"
	EventBuzzerCountdownStart = "buzzer_countdown_start"
	EventBuzzerCountdownTick  = "buzzer_countdown_tick"
	EventBuzzersLive          = "buzzers_live"
	EventBuzzBlocked          = "buzz_blocked"
	EventPlayerBuzzed         = "player_buzzed"
	EventTick                 = "tick"
	EventTimeUp               = "time_up"
	EventClickRegistered      = "click_registered"
	EventAnswerResult         = "answer_result"
	EventPointsAwarded        = "points_awarded"
	EventGameFinished         = "game_finished"
	EventGameStopped          = "game_stopped"
)

type GameStartedPayload struct {
	GameType       string   `json:"game_type"`
	Duration       int      `json:"duration,omitempty"`
	TotalQuestions int      `json:"total_questions,omitempty"`
	Players        []Player `json:"players"`
}

type TickPayload struct {
	TimeRemaining  int            `json:"time_remaining"`
	QuestionNumber int            `json:"question_number,omitempty"`
	Scores         map[string]int `json:"scores,omitempty"`
}

type ClickRegisteredPayload struct {
	PlayerID string         `json:"player_id"`
	Count    int            `json:"count"`
	Scores   map[string]int `json:"scores"`
}

type NewQuestionPayload struct {
	QuestionNumber int      `json:"question_number"`
	TotalQuestions int      `json:"total_questions"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	TimeLimit      int      `json:"time_limit"`
}

type NewRoundPayload struct {
	RoundNumber  int            `json:"round_number"`
	BuzzerStatus string         `json:"buzzer_status"`
	Scores       map[string]int `json:"scores"`
}

type BuzzerCountdownPayload struct {
	Countdown int `json:"countdown"`
}

type BuzzersLivePayload struct {
	ActivatedAt string `json:"activated_at"`
}

type BuzzBlockedPayload struct {
	PlayerID string `json:"player_id"`
	Reason   string `json:"reason"`
}

type PlayerBuzzedPayload struct {
	PlayerID     string       `json:"player_id"`
	PlayerName   string       `json:"player_name"`
	Rank         int          `json:"rank"`
	SinceOpenMs  int64        `json:"since_open_ms"`
	SinceFirstMs int64        `json:"since_first_ms"`
	TotalBuzzed  int          `json:"total_buzzed"`
	BuzzTable    []BuzzRecord `json:"buzz_table"`
}

type AnswerResultPayload struct {
	PlayerID          string         `json:"player_id"`
	PlayerName        string         `json:"player_name"`
	AnswerIndex       int            `json:"answer_index"`
	IsCorrect         bool           `json:"is_correct"`
	CorrectAnswer     int            `json:"correct_answer"`
	CorrectAnswerText string         `json:"correct_answer_text"`
	PointsAwarded     int            `json:"points_awarded"`
	Scores            map[string]int `json:"scores"`
}

type TimeUpPayload struct {
	CorrectAnswer     int    `json:"correct_answer"`
	CorrectAnswerText string `json:"correct_answer_text"`
}

type PointsAwardedPayload struct {
	PlayerID      string         `json:"player_id"`
	PlayerName    string         `json:"player_name"`
	PointsAwarded int            `json:"points_awarded"`
	NewTotal      int            `json:"new_total"`
	Scores        map[string]int `json:"scores"`
}

type GameFinishedPayload struct {
	GameType    string      `json:"game_type"`
	Winner      *ScoreCard  `json:"winner"`
	FinalScores []ScoreCard `json:"final_scores"`
	TotalRounds int         `json:"total_rounds,omitempty"`
}

type GameStoppedPayload struct {
	GameType string `json:"game_type"`
}
