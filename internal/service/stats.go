package service

import (
	"vocabdeck/internal/domain"

	"go.uber.org/zap"
)

// DeckStats summarizes one deck
type DeckStats struct {
	DeckID   string
	Title    string
	Total    int
	Known    int
	Learning int
}

// StatsService reports per-deck totals
type StatsService struct {
	library  *LibraryService
	progress *ProgressService
	logger   *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(library *LibraryService, progress *ProgressService, logger *zap.Logger) *StatsService {
	return &StatsService{
		library:  library,
		progress: progress,
		logger:   logger,
	}
}

// DeckStats returns the totals of one deck. Known and learning are the sizes
// of the deck's progress sets.
func (s *StatsService) DeckStats(deckID string) (DeckStats, error) {
	deck, ok := s.library.Deck(deckID)
	if !ok {
		return DeckStats{}, ErrDeckNotFound
	}
	return statsOf(deck, s.progress), nil
}

// Overview returns stats for every deck in collection order
func (s *StatsService) Overview() []DeckStats {
	c := s.library.Collection()
	out := make([]DeckStats, 0, len(c.Decks))
	for _, d := range c.Decks {
		out = append(out, statsOf(d, s.progress))
	}
	s.logger.Debug("Stats overview computed", zap.Int("decks", len(out)))
	return out
}

func statsOf(deck domain.Deck, progress *ProgressService) DeckStats {
	known, learning := progress.Counts(deck.ID)
	return DeckStats{
		DeckID:   deck.ID,
		Title:    deck.Title,
		Total:    len(deck.Items),
		Known:    known,
		Learning: learning,
	}
}
