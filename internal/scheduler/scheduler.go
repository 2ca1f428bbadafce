package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vocabdeck/internal/app"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// DefaultBackupTime is the daily backup time (UTC) used when none is set
const DefaultBackupTime = "03:00"

// Scheduler writes daily backup snapshots of the collection and progress
type Scheduler struct {
	scheduler *gocron.Scheduler
	app       *app.App
	dir       string
	at        string
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a scheduler writing backups into dir at the given HH:MM (UTC)
func New(a *app.App, dir, at string, logger *zap.Logger) *Scheduler {
	if at == "" {
		at = DefaultBackupTime
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		app:       a,
		dir:       dir,
		at:        at,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the backup job and runs the scheduler in the background
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		path, err := s.RunBackup()
		if err != nil {
			s.logger.Error("Scheduled backup failed", zap.Error(err))
			return
		}
		s.logger.Info("Scheduled backup written", zap.String("path", path))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup at %q: %w", s.at, err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("Backup scheduler started",
		zap.String("dir", s.dir),
		zap.String("at", s.at),
	)
	return nil
}

// Stop terminates the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunBackup writes one snapshot and returns its path
func (s *Scheduler) RunBackup() (string, error) {
	var data []byte
	err := s.app.Run(func() error {
		var err error
		data, err = json.MarshalIndent(s.app.Library.Backup(), "", "  ")
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	name := fmt.Sprintf("jp_vocab_backup_%s.json", s.now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}
