package domain

import "fmt"

// Status is a mark applied to an item
type Status string

const (
	StatusKnown    Status = "known"
	StatusLearning Status = "learning"
	StatusClear    Status = "clear"
)

// ParseStatus validates a status string
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusKnown, StatusLearning, StatusClear:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ItemState is the derived mastery state of an item
type ItemState string

const (
	ItemUnseen   ItemState = "unseen"
	ItemKnown    ItemState = "known"
	ItemLearning ItemState = "learning"
)

// StatusFilter selects items by mastery state
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterKnown    StatusFilter = "known"
	FilterLearning StatusFilter = "learning"
)

// ParseStatusFilter maps unknown values to FilterAll
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case FilterKnown, FilterLearning:
		return StatusFilter(s)
	}
	return FilterAll
}

// DeckProgress holds the known and learning item IDs of one deck.
// An ID is in at most one of the two lists.
type DeckProgress struct {
	Known    []string `json:"known"`
	Learning []string `json:"learning"`
}

// Progress maps deck ID to its progress entry
type Progress map[string]*DeckProgress

// Clone returns a deep copy of the progress map
func (p Progress) Clone() Progress {
	out := make(Progress, len(p))
	for k, v := range p {
		if v == nil {
			out[k] = &DeckProgress{Known: []string{}, Learning: []string{}}
			continue
		}
		out[k] = v.Clone()
	}
	return out
}

// Clone returns a deep copy of the entry
func (dp *DeckProgress) Clone() *DeckProgress {
	return &DeckProgress{
		Known:    append([]string{}, dp.Known...),
		Learning: append([]string{}, dp.Learning...),
	}
}

// Dedupe removes repeated IDs keeping first occurrences
func (dp *DeckProgress) Dedupe() {
	dp.Known = dedupe(dp.Known)
	dp.Learning = dedupe(dp.Learning)
}

// Has reports whether the list contains the ID
func Has(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Apply returns a new entry with the status applied to itemID
func (dp *DeckProgress) Apply(itemID string, status Status) *DeckProgress {
	next := dp.Clone()
	switch status {
	case StatusKnown:
		next.Learning = without(next.Learning, itemID)
		if !Has(next.Known, itemID) {
			next.Known = append(next.Known, itemID)
		}
	case StatusLearning:
		next.Known = without(next.Known, itemID)
		if !Has(next.Learning, itemID) {
			next.Learning = append(next.Learning, itemID)
		}
	case StatusClear:
		next.Known = without(next.Known, itemID)
		next.Learning = without(next.Learning, itemID)
	}
	return next
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
