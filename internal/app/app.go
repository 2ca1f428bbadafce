// Package app owns the loaded collection, progress and services.
//
// One App is created at startup and shared by every front-end. The services
// behind it are not synchronized; callers run their work through Run, which
// executes one operation at a time.
package app

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"vocabdeck/internal/i18n"
	"vocabdeck/internal/repository"
	"vocabdeck/internal/seed"
	"vocabdeck/internal/service"

	"go.uber.org/zap"
)

// Options configure New
type Options struct {
	Store repository.KVStore
	Lang  string
	// Seed for the quiz random source. Zero seeds from the clock.
	Seed   int64
	Logger *zap.Logger
}

// App is the owning context of the study core
type App struct {
	mu sync.Mutex

	Library    *service.LibraryService
	Progress   *service.ProgressService
	Stats      *service.StatsService
	Quiz       *service.QuizService
	Translator *i18n.Catalog

	logger *zap.Logger
}

// New loads the catalog, the progress and the collection
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := i18n.Load(opts.Lang)
	if err != nil {
		return nil, err
	}

	seedValue := opts.Seed
	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seedValue))

	progress := service.NewProgressService(opts.Store, logger)
	if err := progress.Load(); err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	library := service.NewLibraryService(opts.Store, progress, catalog, seed.Sample(), rnd, logger)
	if err := library.Load(); err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	logger.Info("Study data loaded",
		zap.Int("decks", len(library.Collection().Decks)),
		zap.String("lang", catalog.Lang()),
	)

	return &App{
		Library:    library,
		Progress:   progress,
		Stats:      service.NewStatsService(library, progress, logger),
		Quiz:       service.NewQuizService(progress, rnd, catalog.EmptyValue(), logger),
		Translator: catalog,
		logger:     logger,
	}, nil
}

// Run executes fn while holding the app lock
func (a *App) Run(fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn()
}

// NewSession starts a study session over the shared collection.
// Sessions must only be used inside Run.
func (a *App) NewSession() *service.StudySession {
	return service.NewStudySession(a.Library, a.Progress, a.Quiz, a.logger)
}
