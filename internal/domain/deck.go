package domain

// Example is a sentence pair attached to an item
type Example struct {
	JP string `json:"jp"`
	VI string `json:"vi"`
}

// Item is one vocabulary entry of a deck
type Item struct {
	ID       string    `json:"id,omitempty"`
	JP       string    `json:"jp"`
	Reading  string    `json:"reading"`
	VI       string    `json:"vi"`
	Tags     []string  `json:"tags"`
	Examples []Example `json:"examples"`
}

// Deck is a named list of items
type Deck struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Items       []Item `json:"items"`
}

// Collection is the persisted root of all decks
type Collection struct {
	Decks []Deck `json:"decks"`
}

// DeckExport is the per-deck export payload. Item IDs are stripped.
type DeckExport struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Items       []Item `json:"items"`
}

// Backup is the full data + progress payload
type Backup struct {
	Data     Collection `json:"data"`
	Progress Progress   `json:"progress"`
}

// Clone returns a deep copy of the item
func (it Item) Clone() Item {
	out := it
	out.Tags = append([]string{}, it.Tags...)
	out.Examples = append([]Example{}, it.Examples...)
	return out
}

// Clone returns a deep copy of the deck
func (d Deck) Clone() Deck {
	out := d
	out.Items = make([]Item, len(d.Items))
	for i, it := range d.Items {
		out.Items[i] = it.Clone()
	}
	return out
}

// Clone returns a deep copy of the collection
func (c Collection) Clone() Collection {
	out := Collection{Decks: make([]Deck, len(c.Decks))}
	for i, d := range c.Decks {
		out.Decks[i] = d.Clone()
	}
	return out
}

// FindDeck returns the index of the deck with the given ID or -1
func (c Collection) FindDeck(deckID string) int {
	for i, d := range c.Decks {
		if d.ID == deckID {
			return i
		}
	}
	return -1
}

// Export converts the deck into its export payload
func (d Deck) Export() DeckExport {
	items := make([]Item, len(d.Items))
	for i, it := range d.Items {
		items[i] = it.Clone()
		items[i].ID = ""
	}
	return DeckExport{
		Title:       d.Title,
		Description: d.Description,
		Items:       items,
	}
}
