package service

import (
	"fmt"
	"strings"

	"vocabdeck/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Rand is the random source used for question and distractor selection.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Marker records the outcome of an answer
type Marker interface {
	Mark(deckID, itemID string, status domain.Status) error
}

const distractorCount = 3

// QuizService builds questions and checks answers
type QuizService struct {
	marker      Marker
	rnd         Rand
	emptyMarker string
	logger      *zap.Logger
}

// NewQuizService creates a new quiz service. emptyMarker is shown in place of
// empty prompt or option text.
func NewQuizService(marker Marker, rnd Rand, emptyMarker string, logger *zap.Logger) *QuizService {
	if emptyMarker == "" {
		emptyMarker = "-"
	}
	return &QuizService{
		marker:      marker,
		rnd:         rnd,
		emptyMarker: emptyMarker,
		logger:      logger,
	}
}

func (s *QuizService) orEmpty(v string) string {
	if v == "" {
		return s.emptyMarker
	}
	return v
}

// MakeQuestion picks a random item as the answer of a new question
func (s *QuizService) MakeQuestion(deckID string, items []domain.Item, dir domain.Direction, kind domain.QuizKind) (*domain.Question, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	answer := items[s.rnd.Intn(len(items))]
	q := &domain.Question{
		ID:         uuid.NewString(),
		DeckID:     deckID,
		Direction:  dir,
		Kind:       kind,
		AnswerItem: answer.Clone(),
		Prompt:     s.orEmpty(dir.PromptField(answer)),
		Answer:     s.orEmpty(dir.AnswerField(answer)),
		State:      domain.QuestionUnanswered,
	}
	if kind == domain.QuizMultipleChoice {
		q.Choices = s.BuildChoices(answer, items, dir)
	}
	return q, nil
}

// BuildChoices returns the answer plus up to three distinct distractors from
// the pool, in random order
func (s *QuizService) BuildChoices(answer domain.Item, pool []domain.Item, dir domain.Direction) []domain.Choice {
	seen := map[string]bool{answer.ID: true}
	candidates := make([]domain.Item, 0, len(pool))
	for _, it := range pool {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		candidates = append(candidates, it)
	}

	// partial Fisher-Yates: the first n candidates become a uniform sample
	n := distractorCount
	if len(candidates) < n {
		n = len(candidates)
	}
	for i := 0; i < n; i++ {
		j := i + s.rnd.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	options := append([]domain.Item{answer}, candidates[:n]...)
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	choices := make([]domain.Choice, len(options))
	for i, it := range options {
		choices[i] = domain.Choice{
			ItemID: it.ID,
			Text:   s.orEmpty(dir.AnswerField(it)),
		}
		if dir == domain.DirectionVIToJP {
			choices[i].Reading = it.Reading
		}
	}
	return choices
}

// AnswerChoice resolves a multiple-choice question. The answer item is marked
// known when itemID matches it and learning otherwise.
func (s *QuizService) AnswerChoice(q *domain.Question, itemID string, score *domain.Score) (bool, error) {
	if q.Answered() {
		return q.Correct, ErrAlreadyAnswered
	}
	return s.resolve(q, itemID == q.AnswerItem.ID, score)
}

// AnswerText resolves a free-text question
func (s *QuizService) AnswerText(q *domain.Question, input string, score *domain.Score) (bool, error) {
	if q.Answered() {
		return q.Correct, ErrAlreadyAnswered
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return false, ErrEmptyAnswer
	}
	expected := q.Direction.AnswerField(q.AnswerItem)
	return s.resolve(q, CheckTextAnswer(q.Direction, expected, input), score)
}

// Reveal gives up on a question. It changes the score like a wrong answer:
// score.Wrong is incremented and the answer item is marked learning.
func (s *QuizService) Reveal(q *domain.Question, score *domain.Score) error {
	if q.Answered() {
		return ErrAlreadyAnswered
	}
	_, err := s.resolve(q, false, score)
	return err
}

func (s *QuizService) resolve(q *domain.Question, correct bool, score *domain.Score) (bool, error) {
	status := domain.StatusLearning
	if correct {
		status = domain.StatusKnown
	}
	if err := s.marker.Mark(q.DeckID, q.AnswerItem.ID, status); err != nil {
		return false, fmt.Errorf("failed to record answer: %w", err)
	}

	q.State = domain.QuestionAnswered
	q.Correct = correct
	score.Record(correct)

	s.logger.Debug("Question answered",
		zap.String("question_id", q.ID),
		zap.String("item_id", q.AnswerItem.ID),
		zap.Bool("correct", correct),
	)
	return correct, nil
}

// CheckTextAnswer compares a typed answer with the expected text.
// jp_to_vi collapses whitespace runs and ignores case; vi_to_jp ignores all
// whitespace and is case-sensitive.
func CheckTextAnswer(dir domain.Direction, expected, input string) bool {
	expected = norm.NFC.String(expected)
	input = norm.NFC.String(input)

	if dir == domain.DirectionVIToJP {
		return stripSpace(input) == stripSpace(expected)
	}
	return foldAnswer(input) == foldAnswer(expected)
}

func foldAnswer(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
