package service

import (
	"encoding/json"
	"fmt"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/repository"

	"go.uber.org/zap"
)

// ProgressReader is the read side of the progress store
type ProgressReader interface {
	IsKnown(deckID, itemID string) bool
	IsLearning(deckID, itemID string) bool
}

// ProgressService tracks per-deck known/learning sets and persists them on
// every mutation. The in-memory state only changes after a successful write.
type ProgressService struct {
	store    repository.KVStore
	logger   *zap.Logger
	progress domain.Progress
}

// NewProgressService creates a new progress service with empty progress
func NewProgressService(store repository.KVStore, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		store:    store,
		logger:   logger,
		progress: domain.Progress{},
	}
}

// Load reads progress from the store. Unreadable payloads are replaced by
// empty progress; only store failures are returned.
func (s *ProgressService) Load() error {
	raw, err := s.store.Get(repository.KeyProgress)
	if err != nil {
		return fmt.Errorf("failed to read progress: %w", err)
	}
	if raw == nil {
		s.progress = domain.Progress{}
		return nil
	}

	p, err := decodeProgress(raw, s.logger)
	if err != nil {
		s.logger.Warn("Stored progress is corrupted, starting empty", zap.Error(err))
		s.progress = domain.Progress{}
		return nil
	}

	s.progress = p
	return nil
}

// decodeProgress parses a progress payload leniently. Entries that cannot be
// read are reset to empty; the result is sanitized.
func decodeProgress(raw []byte, logger *zap.Logger) (domain.Progress, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		return nil, fmt.Errorf("progress payload is not an object")
	}

	p := make(domain.Progress, len(entries))
	for deckID, entry := range entries {
		var dp domain.DeckProgress
		if err := json.Unmarshal(entry, &dp); err != nil {
			logger.Warn("Dropping unreadable progress entry",
				zap.String("deck_id", deckID),
				zap.Error(err),
			)
		}
		p[deckID] = &dp
	}
	return SanitizeProgress(p), nil
}

// SanitizeProgress returns a copy with deduplicated lists and mutually
// exclusive sets. An ID present in both lists stays known.
func SanitizeProgress(p domain.Progress) domain.Progress {
	out := p.Clone()
	for _, dp := range out {
		if dp.Known == nil {
			dp.Known = []string{}
		}
		if dp.Learning == nil {
			dp.Learning = []string{}
		}
		dp.Dedupe()

		learning := dp.Learning[:0]
		for _, id := range dp.Learning {
			if !domain.Has(dp.Known, id) {
				learning = append(learning, id)
			}
		}
		dp.Learning = learning
	}
	return out
}

// EnsureEntry guarantees a present, deduplicated entry for the deck.
// It is idempotent and does not persist.
func (s *ProgressService) EnsureEntry(deckID string) *domain.DeckProgress {
	dp, ok := s.progress[deckID]
	if !ok || dp == nil {
		dp = &domain.DeckProgress{Known: []string{}, Learning: []string{}}
		s.progress[deckID] = dp
		return dp
	}
	dp.Dedupe()
	return dp
}

// Mark applies a status to an item and persists the whole progress object
func (s *ProgressService) Mark(deckID, itemID string, status domain.Status) error {
	switch status {
	case domain.StatusKnown, domain.StatusLearning, domain.StatusClear:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	current := s.EnsureEntry(deckID)
	next := s.progress.Clone()
	next[deckID] = current.Apply(itemID, status)

	if err := s.save(next); err != nil {
		return err
	}

	s.logger.Debug("Item marked",
		zap.String("deck_id", deckID),
		zap.String("item_id", itemID),
		zap.String("status", string(status)),
	)
	return nil
}

// IsKnown ensures the deck entry and reports whether the item is known
func (s *ProgressService) IsKnown(deckID, itemID string) bool {
	return domain.Has(s.EnsureEntry(deckID).Known, itemID)
}

// IsLearning ensures the deck entry and reports whether the item is learning
func (s *ProgressService) IsLearning(deckID, itemID string) bool {
	return domain.Has(s.EnsureEntry(deckID).Learning, itemID)
}

// State returns the derived mastery state of an item
func (s *ProgressService) State(deckID, itemID string) domain.ItemState {
	switch {
	case s.IsKnown(deckID, itemID):
		return domain.ItemKnown
	case s.IsLearning(deckID, itemID):
		return domain.ItemLearning
	}
	return domain.ItemUnseen
}

// Counts returns the sizes of the deck's known and learning sets
func (s *ProgressService) Counts(deckID string) (known, learning int) {
	dp := s.EnsureEntry(deckID)
	return len(dp.Known), len(dp.Learning)
}

// ResetDeck replaces the deck's entry with two empty sets
func (s *ProgressService) ResetDeck(deckID string) error {
	next := s.progress.Clone()
	next[deckID] = &domain.DeckProgress{Known: []string{}, Learning: []string{}}
	if err := s.save(next); err != nil {
		return err
	}
	s.logger.Info("Deck progress reset", zap.String("deck_id", deckID))
	return nil
}

// DeleteDeck removes the deck's entry entirely
func (s *ProgressService) DeleteDeck(deckID string) error {
	if _, ok := s.progress[deckID]; !ok {
		return nil
	}
	next := s.progress.Clone()
	delete(next, deckID)
	return s.save(next)
}

// Snapshot returns a copy of the current progress
func (s *ProgressService) Snapshot() domain.Progress {
	return s.progress.Clone()
}

// Replace sanitizes and persists a whole progress object
func (s *ProgressService) Replace(p domain.Progress) error {
	if p == nil {
		p = domain.Progress{}
	}
	return s.save(SanitizeProgress(p))
}

func (s *ProgressService) save(next domain.Progress) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	if err := s.store.Set(repository.KeyProgress, data); err != nil {
		s.logger.Error("Failed to save progress", zap.Error(err))
		return fmt.Errorf("failed to save progress: %w", err)
	}
	s.progress = next
	return nil
}
