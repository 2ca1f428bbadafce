package domain

// Direction selects which field is the prompt and which is the answer
type Direction string

const (
	// DirectionJPToVI prompts with the source text and expects the translation
	DirectionJPToVI Direction = "jp_to_vi"
	// DirectionVIToJP prompts with the translation and expects the source text
	DirectionVIToJP Direction = "vi_to_jp"
)

// ParseDirection maps unknown values to DirectionJPToVI
func ParseDirection(s string) Direction {
	if Direction(s) == DirectionVIToJP {
		return DirectionVIToJP
	}
	return DirectionJPToVI
}

// PromptField returns the prompt side of an item
func (d Direction) PromptField(it Item) string {
	if d == DirectionVIToJP {
		return it.VI
	}
	return it.JP
}

// AnswerField returns the answer side of an item
func (d Direction) AnswerField(it Item) string {
	if d == DirectionVIToJP {
		return it.JP
	}
	return it.VI
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	if d == DirectionVIToJP {
		return DirectionJPToVI
	}
	return DirectionVIToJP
}

// QuizKind is the answer style of a quiz
type QuizKind string

const (
	QuizMultipleChoice QuizKind = "mc"
	QuizTyped          QuizKind = "type"
)

// ParseQuizKind maps unknown values to QuizMultipleChoice
func ParseQuizKind(s string) QuizKind {
	if QuizKind(s) == QuizTyped {
		return QuizTyped
	}
	return QuizMultipleChoice
}

// QuestionState tracks whether a question has been answered
type QuestionState string

const (
	QuestionUnanswered QuestionState = "unanswered"
	QuestionAnswered   QuestionState = "answered"
)

// Choice is one multiple-choice option
type Choice struct {
	ItemID  string
	Text    string
	Reading string
}

// Question is an ephemeral quiz question
type Question struct {
	ID         string
	DeckID     string
	Direction  Direction
	Kind       QuizKind
	AnswerItem Item
	Prompt     string
	Answer     string
	Choices    []Choice
	State      QuestionState
	Correct    bool
}

// Answered reports whether the question reached its terminal state
func (q *Question) Answered() bool {
	return q.State == QuestionAnswered
}

// Score counts answers given in this session
type Score struct {
	Right int
	Wrong int
}

// Record increments the matching counter
func (s *Score) Record(correct bool) {
	if correct {
		s.Right++
		return
	}
	s.Wrong++
}
