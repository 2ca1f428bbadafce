package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"vocabdeck/internal/app"
	"vocabdeck/internal/domain"
	"vocabdeck/internal/service"
	"vocabdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	a, err := app.New(app.Options{
		Store:  testutil.NewMemoryStore(),
		Lang:   "en",
		Seed:   3,
		Logger: testutil.NewTestLogger(),
	})
	require.NoError(t, err)
	return a
}

func TestImportOptions_Target(t *testing.T) {
	tests := []struct {
		name         string
		opts         importOptions
		expectedMode service.ImportMode
		expectError  bool
	}{
		{name: "append", opts: importOptions{deckID: "car"}, expectedMode: service.ImportAppend},
		{name: "new deck", opts: importOptions{title: "Food"}, expectedMode: service.ImportNewDeck},
		{name: "title wins", opts: importOptions{deckID: "car", title: "Food"}, expectedMode: service.ImportNewDeck},
		{name: "neither", opts: importOptions{}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := tt.opts.target()
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedMode, target.Mode)
		})
	}
}

func TestListDecks(t *testing.T) {
	a := newTestApp(t)

	var out bytes.Buffer
	require.NoError(t, listDecks(a, &out))

	assert.Contains(t, out.String(), "lai_xe_o_to\tLái xe ô tô\t2 items\t0 known\t0 learning")
}

func TestImportFileInto(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "animals.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"items":[{"jp":"犬","vi":"chó"}]}`), 0o644))

	csvPath := filepath.Join(dir, "car.csv")
	f, err := os.Create(csvPath)
	require.NoError(t, err)
	cw := csv.NewWriter(f)
	require.NoError(t, cw.WriteAll([][]string{
		{"jp", "reading", "vi"},
		{"タイヤ", "たいや", "lốp xe"},
		{"ブレーキ", "", "phanh"},
	}))
	require.NoError(t, f.Close())

	a := newTestApp(t)

	var out bytes.Buffer
	require.NoError(t, importFileInto(a, importOptions{path: jsonPath, title: "Animals"}, &out))
	assert.Contains(t, out.String(), "Imported into Animals (animals), now 1 items")

	out.Reset()
	require.NoError(t, importFileInto(a, importOptions{path: csvPath, deckID: "lai_xe_o_to"}, &out))
	assert.Contains(t, out.String(), "now 4 items")

	deck, ok := a.Library.Deck("lai_xe_o_to")
	require.True(t, ok)
	assert.Equal(t, "たいや", deck.Items[2].Reading)
	assert.Equal(t, "lai_xe_o_to_004", deck.Items[3].ID)

	err = importFileInto(a, importOptions{path: jsonPath, deckID: "missing"}, &out)
	assert.ErrorIs(t, err, service.ErrMissingTarget)

	err = importFileInto(a, importOptions{path: filepath.Join(dir, "notes.txt"), title: "x"}, &out)
	assert.Error(t, err)
}

func TestExportDecks(t *testing.T) {
	a := newTestApp(t)
	dir := filepath.Join(t.TempDir(), "out")

	var out bytes.Buffer
	require.NoError(t, exportDecks(a, dir, &out))

	files := a.Library.ExportDecks()
	require.Len(t, files, 1)
	path := filepath.Join(dir, files[0].Name)
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), path)
}

func TestExportAndBackupWriteErrors(t *testing.T) {
	a := newTestApp(t)
	dir := t.TempDir()

	// a directory named like the export file makes the write fail
	files := a.Library.ExportDecks()
	require.Len(t, files, 1)
	require.NoError(t, os.Mkdir(filepath.Join(dir, files[0].Name), 0o755))

	var out bytes.Buffer
	err := exportDecks(a, dir, &out)
	assert.ErrorContains(t, err, "failed to write")
	assert.Empty(t, out.String())

	err = writeBackup(a, dir, &out)
	assert.ErrorContains(t, err, "failed to write")
	assert.Empty(t, out.String())
}

func TestBackupAndRestore(t *testing.T) {
	dir := t.TempDir()
	backupPath := filepath.Join(dir, "nested", "backup.json")

	a := newTestApp(t)
	require.NoError(t, a.Progress.Mark("lai_xe_o_to", "lai_xe_o_to_001", domain.StatusKnown))

	var out bytes.Buffer
	require.NoError(t, writeBackup(a, backupPath, &out))
	assert.Contains(t, out.String(), "(1 decks)")

	// a fresh store restored from the file has the same data and progress
	b := newTestApp(t)
	require.NoError(t, b.Library.DeleteDeck("lai_xe_o_to"))

	out.Reset()
	require.NoError(t, restoreBackup(b, backupPath, &out))
	assert.Contains(t, out.String(), "Restored 1 decks")
	assert.True(t, b.Progress.IsKnown("lai_xe_o_to", "lai_xe_o_to_001"))

	err := restoreBackup(b, filepath.Join(dir, "missing.json"), &out)
	assert.Error(t, err)
}
