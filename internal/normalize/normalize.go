// Package normalize turns loosely shaped JSON into the canonical deck model.
//
// Input is the value produced by encoding/json decoding into an `any`
// (map[string]any, []any, string, float64, bool, json.Number or nil). None of
// the functions here return errors: unrecognized shapes produce empty results.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"vocabdeck/internal/domain"
)

// Titles supplies default deck titles
type Titles interface {
	// SingleDeck is the title of a deck built from a bare {items:[...]} payload
	SingleDeck() string
	// Numbered is the title of the n-th deck (1-based)
	Numbered(n int) string
}

// DefaultTitles are the untranslated deck titles
type DefaultTitles struct{}

func (DefaultTitles) SingleDeck() string    { return "Deck" }
func (DefaultTitles) Numbered(n int) string { return fmt.Sprintf("Deck %d", n) }

type shape int

const (
	shapeEmpty shape = iota
	shapeDecks
	shapeSingleDeck
)

func classify(raw any) (shape, map[string]any) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return shapeEmpty, nil
	}
	if _, ok := obj["decks"].([]any); ok {
		return shapeDecks, obj
	}
	if _, ok := obj["items"].([]any); ok {
		return shapeSingleDeck, obj
	}
	return shapeEmpty, nil
}

// Normalize converts raw decoded JSON into a Collection
func Normalize(raw any, titles Titles) domain.Collection {
	if titles == nil {
		titles = DefaultTitles{}
	}

	var candidates []any
	switch kind, obj := classify(raw); kind {
	case shapeDecks:
		candidates = obj["decks"].([]any)
	case shapeSingleDeck:
		id := coerce(obj["id"])
		if id == "" {
			id = "default"
		}
		title := coerce(obj["title"])
		if title == "" {
			title = titles.SingleDeck()
		}
		candidates = []any{map[string]any{
			"id":          id,
			"title":       title,
			"description": obj["description"],
			"items":       obj["items"],
		}}
	}

	out := domain.Collection{Decks: []domain.Deck{}}
	usedDeckIDs := make(map[string]bool)
	for _, c := range candidates {
		d, ok := c.(map[string]any)
		if !ok {
			continue
		}
		rawItems, ok := d["items"].([]any)
		if !ok {
			continue
		}

		n := len(out.Decks) + 1
		deckID := coerce(d["id"])
		if deckID == "" {
			deckID = fmt.Sprintf("deck_%d", n)
		}
		deckID = uniqueID(deckID, usedDeckIDs)
		usedDeckIDs[deckID] = true

		title := coerce(d["title"])
		if title == "" {
			title = titles.Numbered(n)
		}

		deck := domain.Deck{
			ID:          deckID,
			Title:       title,
			Description: coerce(d["description"]),
			Items:       []domain.Item{},
		}

		usedItemIDs := make(map[string]bool)
		for _, ri := range rawItems {
			it, ok := coerceItem(ri)
			if !ok {
				continue
			}
			it.ID = coerce(ri.(map[string]any)["id"])
			if it.ID == "" {
				it.ID = fmt.Sprintf("%s_%03d", deckID, len(deck.Items)+1)
			}
			if usedItemIDs[it.ID] {
				it.ID = NextItemID(deck)
			}
			usedItemIDs[it.ID] = true
			deck.Items = append(deck.Items, it)
		}

		out.Decks = append(out.Decks, deck)
	}

	return out
}

// ExtractImportItems pulls item-like records out of an import payload.
// Returned items have no ID; the caller allocates them with NextItemID.
func ExtractImportItems(parsed any) []domain.Item {
	var raw []any
	switch v := parsed.(type) {
	case []any:
		raw = v
	case map[string]any:
		if items, ok := v["items"].([]any); ok {
			raw = items
		} else if decks, ok := v["decks"].([]any); ok && len(decks) > 0 {
			if first, ok := decks[0].(map[string]any); ok {
				raw, _ = first["items"].([]any)
			}
		}
	}

	items := make([]domain.Item, 0, len(raw))
	for _, ri := range raw {
		if it, ok := coerceItem(ri); ok {
			items = append(items, it)
		}
	}
	return items
}

// coerceItem applies the per-item filter and coercion. The ID is left empty.
func coerceItem(raw any) (domain.Item, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.Item{}, false
	}
	it := domain.Item{
		JP:       coerce(obj["jp"]),
		Reading:  coerce(obj["reading"]),
		VI:       coerce(obj["vi"]),
		Tags:     []string{},
		Examples: []domain.Example{},
	}
	if it.JP == "" && it.VI == "" {
		return domain.Item{}, false
	}
	if tags, ok := obj["tags"].([]any); ok {
		for _, t := range tags {
			it.Tags = append(it.Tags, coerce(t))
		}
	}
	if examples, ok := obj["examples"].([]any); ok {
		for _, e := range examples {
			ex, ok := e.(map[string]any)
			if !ok {
				continue
			}
			it.Examples = append(it.Examples, domain.Example{
				JP: coerce(ex["jp"]),
				VI: coerce(ex["vi"]),
			})
		}
	}
	return it, true
}

// coerce converts a JSON scalar to its string form. Missing values, null and
// composite values become "".
func coerce(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return ""
}

func uniqueID(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	for i := 2; ; i++ {
		id := base + "_" + strconv.Itoa(i)
		if !used[id] {
			return id
		}
	}
}

// Decode parses JSON into the loosely typed form accepted by Normalize
func Decode(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
