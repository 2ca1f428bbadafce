package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/normalize"
	"vocabdeck/internal/repository"

	"go.uber.org/zap"
)

// ImportMode selects where imported items go
type ImportMode string

const (
	ImportAppend  ImportMode = "append_existing"
	ImportNewDeck ImportMode = "create_new"
)

// ImportTarget describes the destination of an import
type ImportTarget struct {
	Mode   ImportMode
	DeckID string
	Title  string
}

// ExportFile is one file produced by ExportDecks
type ExportFile struct {
	Name    string
	Payload any
}

const (
	emptyExportName = "jp_vocab_data.json"
	BackupFileName  = "jp_vocab_data_plus_progress.json"
)

// LibraryService owns the deck collection
type LibraryService struct {
	store    repository.KVStore
	progress *ProgressService
	titles   normalize.Titles
	sample   []byte
	rnd      Rand
	logger   *zap.Logger
	data     domain.Collection
}

// NewLibraryService creates a new library service. sample is written to the
// store when it holds no readable collection.
func NewLibraryService(store repository.KVStore, progress *ProgressService, titles normalize.Titles, sample []byte, rnd Rand, logger *zap.Logger) *LibraryService {
	if titles == nil {
		titles = normalize.DefaultTitles{}
	}
	return &LibraryService{
		store:    store,
		progress: progress,
		titles:   titles,
		sample:   sample,
		rnd:      rnd,
		logger:   logger,
		data:     domain.Collection{Decks: []domain.Deck{}},
	}
}

// Load reads the collection from the store, seeding the sample data when
// nothing usable is stored
func (s *LibraryService) Load() error {
	raw, err := s.store.Get(repository.KeyCollection)
	if err != nil {
		return fmt.Errorf("failed to read collection: %w", err)
	}

	if raw != nil {
		parsed, err := normalize.Decode(raw)
		if err == nil {
			s.data = normalize.Normalize(parsed, s.titles)
			s.logger.Info("Collection loaded", zap.Int("decks", len(s.data.Decks)))
			return nil
		}
		s.logger.Warn("Stored collection is corrupted, reseeding sample data", zap.Error(err))
	}

	return s.seed()
}

func (s *LibraryService) seed() error {
	c := domain.Collection{Decks: []domain.Deck{}}
	if parsed, err := normalize.Decode(s.sample); err == nil {
		c = normalize.Normalize(parsed, s.titles)
	} else if len(s.sample) > 0 {
		s.logger.Warn("Bundled sample data is unreadable", zap.Error(err))
	}

	// sample items are given sequential IDs in order
	for i := range c.Decks {
		items := c.Decks[i].Items
		c.Decks[i].Items = []domain.Item{}
		for _, it := range items {
			it.ID = normalize.NextItemID(c.Decks[i])
			c.Decks[i].Items = append(c.Decks[i].Items, it)
		}
	}

	if err := s.save(c); err != nil {
		return err
	}
	s.logger.Info("Sample collection seeded", zap.Int("decks", len(c.Decks)))
	return nil
}

// Collection returns a copy of the whole collection
func (s *LibraryService) Collection() domain.Collection {
	return s.data.Clone()
}

// Deck returns a copy of the deck with the given ID
func (s *LibraryService) Deck(deckID string) (domain.Deck, bool) {
	i := s.data.FindDeck(deckID)
	if i < 0 {
		return domain.Deck{}, false
	}
	return s.data.Decks[i].Clone(), true
}

// FirstDeckID returns the ID of the first deck, or "" for an empty collection
func (s *LibraryService) FirstDeckID() string {
	if len(s.data.Decks) == 0 {
		return ""
	}
	return s.data.Decks[0].ID
}

// UsableDecks returns the decks that have at least one item
func (s *LibraryService) UsableDecks() []domain.Deck {
	out := make([]domain.Deck, 0, len(s.data.Decks))
	for _, d := range s.data.Decks {
		if len(d.Items) > 0 {
			out = append(out, d.Clone())
		}
	}
	return out
}

// ImportJSON parses an import payload and adds its items to the target
func (s *LibraryService) ImportJSON(payload []byte, target ImportTarget) (domain.Deck, error) {
	parsed, err := normalize.Decode([]byte(strings.TrimSpace(string(payload))))
	if err != nil {
		return domain.Deck{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return s.ImportItems(normalize.ExtractImportItems(parsed), target)
}

// ImportItems appends items to an existing deck or creates a new deck for
// them. Item IDs are always freshly allocated. Nothing is changed when an
// error is returned.
func (s *LibraryService) ImportItems(items []domain.Item, target ImportTarget) (domain.Deck, error) {
	if len(items) == 0 {
		return domain.Deck{}, ErrEmptyImport
	}

	next := s.data.Clone()
	var idx int

	switch target.Mode {
	case ImportAppend:
		idx = next.FindDeck(target.DeckID)
		if target.DeckID == "" || idx < 0 {
			return domain.Deck{}, fmt.Errorf("%w: no deck to append to", ErrMissingTarget)
		}
	case ImportNewDeck:
		title := strings.TrimSpace(target.Title)
		if title == "" {
			return domain.Deck{}, fmt.Errorf("%w: new deck title is empty", ErrMissingTarget)
		}
		next.Decks = append(next.Decks, domain.Deck{
			ID:    normalize.UniqueDeckID(normalize.SlugifyID(title), next),
			Title: title,
			Items: []domain.Item{},
		})
		idx = len(next.Decks) - 1
	default:
		return domain.Deck{}, fmt.Errorf("%w: unknown import mode %q", ErrMissingTarget, target.Mode)
	}

	deck := &next.Decks[idx]
	for _, it := range items {
		it = it.Clone()
		it.ID = normalize.NextItemID(*deck)
		deck.Items = append(deck.Items, it)
	}

	if err := s.save(next); err != nil {
		return domain.Deck{}, err
	}

	s.logger.Info("Items imported",
		zap.String("deck_id", deck.ID),
		zap.String("mode", string(target.Mode)),
		zap.Int("count", len(items)),
	)
	return deck.Clone(), nil
}

// DeleteDeck removes a deck and its progress entry. The deck removal is what
// counts: a failure to drop the progress entry is logged and leaves an
// orphaned entry behind.
func (s *LibraryService) DeleteDeck(deckID string) error {
	i := s.data.FindDeck(deckID)
	if i < 0 {
		return ErrDeckNotFound
	}

	next := s.data.Clone()
	next.Decks = append(next.Decks[:i], next.Decks[i+1:]...)

	if err := s.save(next); err != nil {
		return err
	}
	if err := s.progress.DeleteDeck(deckID); err != nil {
		s.logger.Warn("Failed to delete deck progress",
			zap.String("deck_id", deckID),
			zap.Error(err),
		)
	}

	s.logger.Info("Deck deleted", zap.String("deck_id", deckID))
	return nil
}

// ShuffleDeck permutes a deck's items and persists the new order
func (s *LibraryService) ShuffleDeck(deckID string) error {
	i := s.data.FindDeck(deckID)
	if i < 0 {
		return ErrDeckNotFound
	}

	next := s.data.Clone()
	items := next.Decks[i].Items
	s.rnd.Shuffle(len(items), func(a, b int) {
		items[a], items[b] = items[b], items[a]
	})

	return s.save(next)
}

// ExportDecks returns one export file per deck. An empty collection exports a
// single empty collection file.
func (s *LibraryService) ExportDecks() []ExportFile {
	if len(s.data.Decks) == 0 {
		return []ExportFile{{
			Name:    emptyExportName,
			Payload: domain.Collection{Decks: []domain.Deck{}},
		}}
	}

	used := make(map[string]bool, len(s.data.Decks))
	files := make([]ExportFile, 0, len(s.data.Decks))
	for i, d := range s.data.Decks {
		title := d.Title
		if title == "" {
			title = s.titles.Numbered(i + 1)
		}
		slug := normalize.SlugifyID(title)

		name := "jp_vocab_" + slug
		for n := 2; used[name]; n++ {
			name = "jp_vocab_" + slug + "_" + strconv.Itoa(n)
		}
		used[name] = true

		export := d.Export()
		export.Title = title
		files = append(files, ExportFile{Name: name + ".json", Payload: export})
	}
	return files
}

// Backup returns the full data and progress payload
func (s *LibraryService) Backup() domain.Backup {
	return domain.Backup{
		Data:     s.data.Clone(),
		Progress: s.progress.Snapshot(),
	}
}

// RestoreBackup replaces the collection and progress with a backup payload.
// The data part goes through the normalizer; progress is sanitized.
func (s *LibraryService) RestoreBackup(payload []byte) error {
	var raw struct {
		Data     json.RawMessage `json:"data"`
		Progress json.RawMessage `json:"progress"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if raw.Data == nil {
		return fmt.Errorf("%w: backup has no data", ErrMalformedInput)
	}

	parsed, err := normalize.Decode(raw.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	data := normalize.Normalize(parsed, s.titles)

	progress := domain.Progress{}
	if len(raw.Progress) > 0 && string(raw.Progress) != "null" {
		progress, err = decodeProgress(raw.Progress, s.logger)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}

	if err := s.save(data); err != nil {
		return err
	}
	if err := s.progress.Replace(progress); err != nil {
		return err
	}

	s.logger.Info("Backup restored", zap.Int("decks", len(data.Decks)))
	return nil
}

func (s *LibraryService) save(next domain.Collection) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := s.store.Set(repository.KeyCollection, data); err != nil {
		s.logger.Error("Failed to save collection", zap.Error(err))
		return fmt.Errorf("failed to save collection: %w", err)
	}
	s.data = next
	return nil
}
