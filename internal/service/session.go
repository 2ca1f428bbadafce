package service

import (
	"vocabdeck/internal/domain"

	"go.uber.org/zap"
)

// StudySession is the per-user view over the shared collection: current deck,
// direction, filters, flashcard position, score and current question.
//
// Changing the deck, query, direction or status filter recomputes the item
// sequences and resets the position to 0. The flashcard sequence uses the
// query and status filter; the quiz pool uses the query only.
type StudySession struct {
	library  *LibraryService
	progress *ProgressService
	quiz     *QuizService
	logger   *zap.Logger

	deckID    string
	direction domain.Direction
	kind      domain.QuizKind
	query     string
	filter    domain.StatusFilter

	flash    []domain.Item
	index    int
	score    domain.Score
	question *domain.Question
}

// NewStudySession creates a session on the first usable deck
func NewStudySession(library *LibraryService, progress *ProgressService, quiz *QuizService, logger *zap.Logger) *StudySession {
	s := &StudySession{
		library:   library,
		progress:  progress,
		quiz:      quiz,
		logger:    logger,
		direction: domain.DirectionJPToVI,
		kind:      domain.QuizMultipleChoice,
		filter:    domain.FilterAll,
	}
	if usable := library.UsableDecks(); len(usable) > 0 {
		s.deckID = usable[0].ID
	}
	s.refresh()
	return s
}

// refresh recomputes the flashcard sequence, resets the position and drops
// the current question. A deck that no longer exists falls back to the first
// deck of the collection.
func (s *StudySession) refresh() {
	if _, ok := s.library.Deck(s.deckID); !ok {
		next := s.library.FirstDeckID()
		if s.deckID != "" {
			s.logger.Debug("Deck gone, switching", zap.String("deck_id", s.deckID), zap.String("next", next))
		}
		s.deckID = next
	}
	s.index = 0
	s.question = nil

	deck, ok := s.library.Deck(s.deckID)
	if !ok {
		s.flash = nil
		return
	}
	s.flash = FilterItems(deck, s.query, s.filter, s.progress)
}

// Reload recomputes the sequences after the collection changed elsewhere
func (s *StudySession) Reload() {
	s.refresh()
}

func (s *StudySession) DeckID() string                    { return s.deckID }
func (s *StudySession) Direction() domain.Direction       { return s.direction }
func (s *StudySession) QuizKind() domain.QuizKind         { return s.kind }
func (s *StudySession) Query() string                     { return s.query }
func (s *StudySession) StatusFilter() domain.StatusFilter { return s.filter }
func (s *StudySession) Score() domain.Score               { return s.score }
func (s *StudySession) Question() *domain.Question        { return s.question }

// Deck returns the current deck
func (s *StudySession) Deck() (domain.Deck, bool) {
	return s.library.Deck(s.deckID)
}

// SelectDeck switches to another deck
func (s *StudySession) SelectDeck(deckID string) error {
	if _, ok := s.library.Deck(deckID); !ok {
		return ErrDeckNotFound
	}
	s.deckID = deckID
	s.refresh()
	return nil
}

// SetQuery changes the search query
func (s *StudySession) SetQuery(query string) {
	s.query = query
	s.refresh()
}

// SetDirection changes the study direction
func (s *StudySession) SetDirection(dir domain.Direction) {
	s.direction = dir
	s.refresh()
}

// SetStatusFilter changes the flashcard status filter
func (s *StudySession) SetStatusFilter(f domain.StatusFilter) {
	s.filter = f
	s.refresh()
}

// SetQuizKind changes the answer style of following questions
func (s *StudySession) SetQuizKind(kind domain.QuizKind) {
	s.kind = kind
	s.question = nil
}

// Items returns the current flashcard sequence
func (s *StudySession) Items() []domain.Item {
	return append([]domain.Item(nil), s.flash...)
}

// Position returns the 0-based active index and the sequence length
func (s *StudySession) Position() (int, int) {
	return s.index, len(s.flash)
}

// Next moves to the next card. It reports false at the end of the sequence.
func (s *StudySession) Next() bool {
	if s.index+1 >= len(s.flash) {
		return false
	}
	s.index++
	return true
}

// Prev moves to the previous card. It reports false at the start.
func (s *StudySession) Prev() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	return true
}

// ActiveItem returns the card at the current position
func (s *StudySession) ActiveItem() (domain.Item, bool) {
	if s.index < 0 || s.index >= len(s.flash) {
		return domain.Item{}, false
	}
	return s.flash[s.index], true
}

// ItemState returns the mastery state of an item in the current deck
func (s *StudySession) ItemState(itemID string) domain.ItemState {
	return s.progress.State(s.deckID, itemID)
}

// ToggleKnown marks the active card known, or clears it if it already is
func (s *StudySession) ToggleKnown() (domain.ItemState, error) {
	return s.toggle(domain.StatusKnown)
}

// ToggleLearning marks the active card learning, or clears it if it already is
func (s *StudySession) ToggleLearning() (domain.ItemState, error) {
	return s.toggle(domain.StatusLearning)
}

func (s *StudySession) toggle(status domain.Status) (domain.ItemState, error) {
	it, ok := s.ActiveItem()
	if !ok {
		return domain.ItemUnseen, ErrNoActiveItem
	}

	already := s.progress.IsKnown(s.deckID, it.ID)
	if status == domain.StatusLearning {
		already = s.progress.IsLearning(s.deckID, it.ID)
	}
	if already {
		status = domain.StatusClear
	}

	if err := s.progress.Mark(s.deckID, it.ID, status); err != nil {
		return s.progress.State(s.deckID, it.ID), err
	}
	return s.progress.State(s.deckID, it.ID), nil
}

// QuizPool returns the items questions are drawn from
func (s *StudySession) QuizPool() []domain.Item {
	deck, ok := s.library.Deck(s.deckID)
	if !ok {
		return nil
	}
	return FilterItems(deck, s.query, domain.FilterAll, s.progress)
}

// NewQuestion replaces the current question with a fresh one
func (s *StudySession) NewQuestion() (*domain.Question, error) {
	if _, ok := s.library.Deck(s.deckID); !ok {
		return nil, ErrNoDeckSelected
	}
	q, err := s.quiz.MakeQuestion(s.deckID, s.QuizPool(), s.direction, s.kind)
	if err != nil {
		return nil, err
	}
	s.question = q
	return q, nil
}

// AnswerChoice answers the current multiple-choice question
func (s *StudySession) AnswerChoice(itemID string) (bool, error) {
	if s.question == nil {
		return false, ErrNoActiveQuestion
	}
	return s.quiz.AnswerChoice(s.question, itemID, &s.score)
}

// AnswerText answers the current question with typed input
func (s *StudySession) AnswerText(input string) (bool, error) {
	if s.question == nil {
		return false, ErrNoActiveQuestion
	}
	return s.quiz.AnswerText(s.question, input, &s.score)
}

// Reveal gives up on the current question
func (s *StudySession) Reveal() error {
	if s.question == nil {
		return ErrNoActiveQuestion
	}
	return s.quiz.Reveal(s.question, &s.score)
}

// ResetProgress clears the current deck's progress. The score is kept.
func (s *StudySession) ResetProgress() error {
	if s.deckID == "" {
		return ErrNoDeckSelected
	}
	if err := s.progress.ResetDeck(s.deckID); err != nil {
		return err
	}
	s.refresh()
	return nil
}

// Shuffle permutes the current deck and persists the order
func (s *StudySession) Shuffle() error {
	if s.deckID == "" {
		return ErrNoDeckSelected
	}
	if err := s.library.ShuffleDeck(s.deckID); err != nil {
		return err
	}
	s.refresh()
	return nil
}

// DeleteDeck deletes the current deck and its progress, then falls back to
// the first remaining deck
func (s *StudySession) DeleteDeck() error {
	if s.deckID == "" {
		return ErrNoDeckSelected
	}
	if err := s.library.DeleteDeck(s.deckID); err != nil {
		return err
	}
	s.deckID = s.library.FirstDeckID()
	s.refresh()
	return nil
}

// Import adds items from a JSON payload and switches to the target deck
func (s *StudySession) Import(payload []byte, target ImportTarget) (domain.Deck, error) {
	deck, err := s.library.ImportJSON(payload, target)
	if err != nil {
		return domain.Deck{}, err
	}
	s.deckID = deck.ID
	s.refresh()
	return deck, nil
}

// ImportItems adds already extracted items and switches to the target deck
func (s *StudySession) ImportItems(items []domain.Item, target ImportTarget) (domain.Deck, error) {
	deck, err := s.library.ImportItems(items, target)
	if err != nil {
		return domain.Deck{}, err
	}
	s.deckID = deck.ID
	s.refresh()
	return deck, nil
}

// Stats returns the totals of the current deck. They are zero without a deck.
func (s *StudySession) Stats() DeckStats {
	deck, ok := s.library.Deck(s.deckID)
	if !ok {
		return DeckStats{}
	}
	return statsOf(deck, s.progress)
}
