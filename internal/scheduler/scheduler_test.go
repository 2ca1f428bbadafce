package scheduler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vocabdeck/internal/app"
	"vocabdeck/internal/domain"
	"vocabdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(app.Options{Store: testutil.NewMemoryStore(), Seed: 1, Logger: testutil.NewTestLogger()})
	require.NoError(t, err)
	return a
}

func TestScheduler_RunBackup(t *testing.T) {
	a := newTestApp(t)
	deckID := a.Library.FirstDeckID()
	require.NoError(t, a.Progress.Mark(deckID, deckID+"_001", domain.StatusKnown))

	dir := filepath.Join(t.TempDir(), "backups")
	s := New(a, dir, "", testutil.NewTestLogger())
	s.now = func() time.Time { return time.Date(2026, 10, 15, 3, 0, 0, 0, time.UTC) }

	path, err := s.RunBackup()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jp_vocab_backup_20261015T030000Z.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var backup domain.Backup
	require.NoError(t, json.Unmarshal(data, &backup))
	assert.Equal(t, a.Library.Collection(), backup.Data)
	assert.Equal(t, []string{deckID + "_001"}, backup.Progress[deckID].Known)
}

func TestScheduler_RunBackupUnwritableDir(t *testing.T) {
	a := newTestApp(t)
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	s := New(a, file, "", testutil.NewTestLogger())

	_, err := s.RunBackup()
	assert.Error(t, err)
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		at          string
		expectError bool
	}{
		{name: "default time", at: ""},
		{name: "custom time", at: "22:30"},
		{name: "invalid time", at: "25:99", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(newTestApp(t), t.TempDir(), tt.at, testutil.NewTestLogger())

			err := s.Start()
			defer s.Stop()

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
