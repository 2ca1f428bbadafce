package service

import (
	"strings"

	"vocabdeck/internal/domain"
)

// FilterItems returns the deck items matching the search query and status
// filter, in deck order. The query is matched case-insensitively against the
// item's text fields; an empty query matches everything.
func FilterItems(deck domain.Deck, query string, filter domain.StatusFilter, progress ProgressReader) []domain.Item {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]domain.Item, 0, len(deck.Items))
	for _, it := range deck.Items {
		if q != "" && !strings.Contains(searchText(it), q) {
			continue
		}
		switch filter {
		case domain.FilterKnown:
			if !progress.IsKnown(deck.ID, it.ID) {
				continue
			}
		case domain.FilterLearning:
			if !progress.IsLearning(deck.ID, it.ID) {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

func searchText(it domain.Item) string {
	parts := make([]string, 0, 3+len(it.Tags)+2*len(it.Examples))
	parts = append(parts, it.JP, it.Reading, it.VI)
	parts = append(parts, it.Tags...)
	for _, ex := range it.Examples {
		parts = append(parts, ex.JP, ex.VI)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
