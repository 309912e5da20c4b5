package game

// Question is one immutable trivia question. CorrectAnswer is the index
// into Options.
type Question struct {
	ID            string   `json:"question_id"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"-"`
	TimeLimit     int      `json:"time_limit"`
}

// DefaultQuestions returns the built-in question set with the given
// per-question time limit.
func DefaultQuestions(timeLimit int) []Question {
	qs := []Question{
		{
			ID:            "q1",
			Text:          "What is the capital of France?",
			Options:       []string{"London", "Berlin", "Paris", "Madrid"},
			CorrectAnswer: 2,
		},
		{
			ID:            "q2",
			Text:          "Which planet is known as the Red Planet?",
			Options:       []string{"Venus", "Mars", "Jupiter", "Saturn"},
			CorrectAnswer: 1,
		},
		{
			ID:            "q3",
			Text:          "Who painted the Mona Lisa?",
			Options:       []string{"Van Gogh", "Picasso", "Da Vinci", "Monet"},
			CorrectAnswer: 2,
		},
		{
			ID:            "q4",
			Text:          "What is the largest ocean on Earth?",
			Options:       []string{"Atlantic", "Indian", "Arctic", "Pacific"},
			CorrectAnswer: 3,
		},
		{
			ID:            "q5",
			Text:          "In which year did World War II end?",
			Options:       []string{"1944", "1945", "1946", "1947"},
			CorrectAnswer: 1,
		},
	}
	for i := range qs {
		qs[i].TimeLimit = timeLimit
	}
	return qs
}
