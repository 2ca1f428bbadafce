package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vocabdeck/internal/app"
	"vocabdeck/internal/domain"
	"vocabdeck/internal/importer"
	"vocabdeck/internal/service"
)

type importOptions struct {
	path   string
	deckID string
	title  string
	sheet  string
}

// target resolves -deck and -title. A title wins and creates a new deck.
func (o importOptions) target() (service.ImportTarget, error) {
	switch {
	case o.title != "":
		return service.ImportTarget{Mode: service.ImportNewDeck, Title: o.title}, nil
	case o.deckID != "":
		return service.ImportTarget{Mode: service.ImportAppend, DeckID: o.deckID}, nil
	}
	return service.ImportTarget{}, errors.New("one of -deck or -title is required")
}

func listDecks(a *app.App, w io.Writer) error {
	return a.Run(func() error {
		decks := a.Library.Collection().Decks
		if len(decks) == 0 {
			fmt.Fprintln(w, "No decks.")
			return nil
		}
		for _, d := range decks {
			known, learning := a.Progress.Counts(d.ID)
			fmt.Fprintf(w, "%s\t%s\t%d items\t%d known\t%d learning\n", d.ID, d.Title, len(d.Items), known, learning)
		}
		return nil
	})
}

func importFileInto(a *app.App, opts importOptions, w io.Writer) error {
	target, err := opts.target()
	if err != nil {
		return err
	}

	format, err := importer.DetectFormat(opts.path)
	if err != nil {
		return err
	}

	var deck domain.Deck
	if format == importer.FormatJSON {
		payload, err := os.ReadFile(opts.path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.path, err)
		}
		err = a.Run(func() error {
			deck, err = a.Library.ImportJSON(payload, target)
			return err
		})
		if err != nil {
			return err
		}
	} else {
		items, err := importer.ReadFile(opts.path, importer.Options{Sheet: opts.sheet})
		if err != nil {
			return err
		}
		err = a.Run(func() error {
			deck, err = a.Library.ImportItems(items, target)
			return err
		})
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Imported into %s (%s), now %d items\n", deck.Title, deck.ID, len(deck.Items))
	return nil
}

func exportDecks(a *app.App, dir string, w io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	err := a.Run(func() error {
		for _, f := range a.Library.ExportDecks() {
			path := filepath.Join(dir, f.Name)
			if err := writeJSON(path, f.Payload); err != nil {
				return err
			}
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range paths {
		fmt.Fprintln(w, path)
	}
	return nil
}

func writeBackup(a *app.App, output string, w io.Writer) error {
	if output == "" {
		output = service.BackupFileName
	}

	if dir := filepath.Dir(output); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var decks int
	err := a.Run(func() error {
		backup := a.Library.Backup()
		decks = len(backup.Data.Decks)
		return writeJSON(output, backup)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Backup written to %s (%d decks)\n", output, decks)
	return nil
}

func restoreBackup(a *app.App, input string, w io.Writer) error {
	payload, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	var decks int
	err = a.Run(func() error {
		if err := a.Library.RestoreBackup(payload); err != nil {
			return err
		}
		decks = len(a.Library.Collection().Decks)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Restored %d decks from %s\n", decks, input)
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
