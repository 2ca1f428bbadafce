package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"vocabdeck/internal/domain"
)

var (
	numericSuffix = regexp.MustCompile(`_(\d+)$`)
	slugSpaces    = regexp.MustCompile(`[\s\p{Zs}]+`)
	slugInvalid   = regexp.MustCompile(`[^\w\x{00C0}-\x{024F}]+`)
	slugRepeats   = regexp.MustCompile(`_+`)
)

// NextItemID allocates the next sequential item ID for a deck.
// Only IDs ending in _<digits> are considered, so IDs that do not follow the
// pattern never influence the result.
func NextItemID(deck domain.Deck) string {
	maxN := 0
	for _, it := range deck.Items {
		m := numericSuffix.FindStringSubmatch(it.ID)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > maxN {
			maxN = n
		}
	}
	return fmt.Sprintf("%s_%03d", deck.ID, maxN+1)
}

// SlugifyID derives a deck ID from a title. Titles with no usable characters
// produce "deck".
func SlugifyID(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugSpaces.ReplaceAllString(s, "_")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugRepeats.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "deck"
	}
	return s
}

// UniqueDeckID appends _2, _3, ... to base until it is not in the collection
func UniqueDeckID(base string, c domain.Collection) string {
	used := make(map[string]bool, len(c.Decks))
	for _, d := range c.Decks {
		used[d.ID] = true
	}
	return uniqueID(base, used)
}
