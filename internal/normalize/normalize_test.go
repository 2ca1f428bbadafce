package normalize

import (
	"encoding/json"
	"testing"

	"vocabdeck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func TestNormalize_Shapes(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedDecks []string
		expectedItems []int
	}{
		{
			name:          "decks payload",
			input:         `{"decks":[{"id":"a","items":[{"jp":"猫","vi":"mèo"}]},{"id":"b","items":[]}]}`,
			expectedDecks: []string{"a", "b"},
			expectedItems: []int{1, 0},
		},
		{
			name:          "single deck payload",
			input:         `{"items":[{"jp":"犬"},{"vi":"chó"}]}`,
			expectedDecks: []string{"default"},
			expectedItems: []int{2},
		},
		{
			name:          "bare array is not a collection",
			input:         `[{"jp":"犬"}]`,
			expectedDecks: []string{},
			expectedItems: []int{},
		},
		{
			name:          "unrecognized object",
			input:         `{"foo":1}`,
			expectedDecks: []string{},
			expectedItems: []int{},
		},
		{
			name:          "scalar",
			input:         `42`,
			expectedDecks: []string{},
			expectedItems: []int{},
		},
		{
			name:          "null",
			input:         `null`,
			expectedDecks: []string{},
			expectedItems: []int{},
		},
		{
			name:          "decks without items array are dropped",
			input:         `{"decks":[{"id":"a","items":"nope"},{"id":"b","items":[{"jp":"x"}]},"junk",null]}`,
			expectedDecks: []string{"b"},
			expectedItems: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Normalize(decode(t, tt.input), nil)

			ids := []string{}
			counts := []int{}
			for _, d := range c.Decks {
				ids = append(ids, d.ID)
				counts = append(counts, len(d.Items))
			}
			assert.Equal(t, tt.expectedDecks, ids)
			assert.Equal(t, tt.expectedItems, counts)
		})
	}
}

func TestNormalize_DeckDefaults(t *testing.T) {
	c := Normalize(decode(t, `{"decks":[
		{"items":"dropped"},
		{"items":[]},
		{"id":7,"title":"","description":null,"items":[]},
		{"id":"","title":"Kept","description":"desc","items":[]}
	]}`), nil)

	require.Len(t, c.Decks, 3)
	assert.Equal(t, "deck_1", c.Decks[0].ID)
	assert.Equal(t, "Deck 1", c.Decks[0].Title)
	assert.Equal(t, "7", c.Decks[1].ID)
	assert.Equal(t, "Deck 2", c.Decks[1].Title)
	assert.Equal(t, "", c.Decks[1].Description)
	assert.Equal(t, "deck_3", c.Decks[2].ID)
	assert.Equal(t, "Kept", c.Decks[2].Title)
	assert.Equal(t, "desc", c.Decks[2].Description)
}

func TestNormalize_SingleDeckDefaults(t *testing.T) {
	c := Normalize(decode(t, `{"id":"n5","title":"","items":[{"jp":"水"}]}`), nil)

	require.Len(t, c.Decks, 1)
	assert.Equal(t, "n5", c.Decks[0].ID)
	assert.Equal(t, "Deck", c.Decks[0].Title)
	assert.Equal(t, "n5_001", c.Decks[0].Items[0].ID)
}

func TestNormalize_Items(t *testing.T) {
	c := Normalize(decode(t, `{"decks":[{"id":"car","items":[
		{"jp":"","vi":""},
		{"reading":"only reading"},
		"string item",
		{"jp":"ワイパー","reading":null,"vi":"cần gạt nước","tags":["oto",3,true],"examples":[{"jp":"ワイパーを動かして","vi":null},"bad"]},
		{"id":12,"jp":0,"vi":false},
		{"vi":"kính","tags":"oto","examples":{"jp":"x"}}
	]}]}`), nil)

	require.Len(t, c.Decks, 1)
	items := c.Decks[0].Items
	require.Len(t, items, 3)

	assert.Equal(t, domain.Item{
		ID:       "car_001",
		JP:       "ワイパー",
		Reading:  "",
		VI:       "cần gạt nước",
		Tags:     []string{"oto", "3", "true"},
		Examples: []domain.Example{{JP: "ワイパーを動かして", VI: ""}},
	}, items[0])

	assert.Equal(t, "12", items[1].ID)
	assert.Equal(t, "0", items[1].JP)
	assert.Equal(t, "false", items[1].VI)

	// position counts retained items only
	assert.Equal(t, "car_003", items[2].ID)
	assert.Equal(t, []string{}, items[2].Tags)
	assert.Equal(t, []domain.Example{}, items[2].Examples)
}

func TestNormalize_EveryItemHasText(t *testing.T) {
	c := Normalize(decode(t, `{"decks":[{"items":[
		{"jp":"a"},{"vi":"b"},{"jp":null,"vi":null},{"jp":{},"vi":[]},{},{"tags":["x"]}
	]}]}`), nil)

	require.Len(t, c.Decks, 1)
	assert.Len(t, c.Decks[0].Items, 2)
	for _, it := range c.Decks[0].Items {
		assert.True(t, it.JP != "" || it.VI != "")
	}
}

func TestNormalize_UniqueIDs(t *testing.T) {
	c := Normalize(decode(t, `{"decks":[
		{"id":"d","items":[{"id":"d_002","jp":"a"},{"jp":"b"},{"id":"d_002","jp":"c"}]},
		{"id":"d","items":[]}
	]}`), nil)

	require.Len(t, c.Decks, 2)
	assert.Equal(t, "d", c.Decks[0].ID)
	assert.Equal(t, "d_2", c.Decks[1].ID)

	ids := []string{}
	for _, it := range c.Decks[0].Items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"d_002", "d_003", "d_004"}, ids)
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(decode(t, `{"decks":[
		{"id":"a","title":"A","items":[{"jp":"一","vi":"một","tags":["n"],"examples":[{"jp":"一つ","vi":"một cái"}]},{"vi":"hai"}]},
		{"title":"","items":[{"jp":"三"}]}
	]}`), nil)

	data, err := json.Marshal(first)
	require.NoError(t, err)

	second := Normalize(decode(t, string(data)), nil)
	assert.Equal(t, first, second)
}

type viTitles struct{}

func (viTitles) SingleDeck() string    { return "Bộ thẻ" }
func (viTitles) Numbered(n int) string { return "Bộ " + string(rune('0'+n)) }

func TestNormalize_TranslatedTitles(t *testing.T) {
	c := Normalize(decode(t, `{"decks":[{"items":[]}]}`), viTitles{})
	assert.Equal(t, "Bộ 1", c.Decks[0].Title)

	c = Normalize(decode(t, `{"items":[]}`), viTitles{})
	assert.Equal(t, "Bộ thẻ", c.Decks[0].Title)
}

func TestExtractImportItems(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "bare array",
			input:    `[{"jp":"a"},{"vi":"b"},{"reading":"c"}]`,
			expected: []string{"a", "b"},
		},
		{
			name:     "items object",
			input:    `{"items":[{"jp":"a","id":"x_001"}]}`,
			expected: []string{"a"},
		},
		{
			name:     "first deck only",
			input:    `{"decks":[{"items":[{"jp":"first"}]},{"items":[{"jp":"second"}]}]}`,
			expected: []string{"first"},
		},
		{
			name:     "first deck without items",
			input:    `{"decks":[{"title":"x"},{"items":[{"jp":"second"}]}]}`,
			expected: []string{},
		},
		{
			name:     "unrecognized",
			input:    `{"words":[{"jp":"a"}]}`,
			expected: []string{},
		},
		{
			name:     "scalar",
			input:    `"hello"`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ExtractImportItems(decode(t, tt.input))

			got := []string{}
			for _, it := range items {
				assert.Empty(t, it.ID)
				got = append(got, it.JP+it.VI)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	deck := domain.Deck{
		ID:    "car",
		Title: "Car",
		Items: []domain.Item{
			{ID: "car_001", JP: "ワイパー", VI: "wiper", Tags: []string{"oto"}, Examples: []domain.Example{{JP: "ワイパーを", VI: "the wiper"}}},
			{ID: "car_002", JP: "フロントガラス", Reading: "", VI: "windshield", Tags: []string{}, Examples: []domain.Example{}},
		},
	}

	data, err := json.Marshal(deck.Export())
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"id"`)

	c := Normalize(decode(t, string(data)), nil)
	require.Len(t, c.Decks, 1)
	require.Len(t, c.Decks[0].Items, 2)
	for i, it := range c.Decks[0].Items {
		orig := deck.Items[i]
		assert.Equal(t, orig.JP, it.JP)
		assert.Equal(t, orig.VI, it.VI)
		assert.Equal(t, orig.Tags, it.Tags)
		assert.Equal(t, orig.Examples, it.Examples)
		assert.NotEmpty(t, it.ID)
	}
}

func TestDecode(t *testing.T) {
	_, err := Decode([]byte(`{"items":`))
	assert.Error(t, err)

	_, err = Decode([]byte(``))
	assert.Error(t, err)

	_, err = Decode([]byte(`{} {}`))
	assert.Error(t, err)

	v, err := Decode([]byte("  [1]\n"))
	assert.NoError(t, err)
	assert.Equal(t, []any{float64(1)}, v)
}

func TestNextItemID(t *testing.T) {
	items := func(ids ...string) []domain.Item {
		out := make([]domain.Item, 0, len(ids))
		for _, id := range ids {
			out = append(out, domain.Item{ID: id, JP: "x"})
		}
		return out
	}

	tests := []struct {
		name     string
		deck     domain.Deck
		expected string
	}{
		{
			name:     "gap in suffixes",
			deck:     domain.Deck{ID: "d", Items: items("d_001", "d_002", "d_005")},
			expected: "d_006",
		},
		{
			name:     "empty deck",
			deck:     domain.Deck{ID: "d"},
			expected: "d_001",
		},
		{
			name:     "ids without numeric suffix",
			deck:     domain.Deck{ID: "d", Items: items("alpha", "d_x", "d_")},
			expected: "d_001",
		},
		{
			name:     "suffix too large is skipped",
			deck:     domain.Deck{ID: "d", Items: items("d_002", "d_99999999999999999999")},
			expected: "d_003",
		},
		{
			name:     "unpadded suffix",
			deck:     domain.Deck{ID: "car", Items: items("car_9", "car_1000")},
			expected: "car_1001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextItemID(tt.deck))
		})
	}
}

func TestSlugifyID(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "trimmed and lowercased", title: "  Lái xe  ", expected: "lái_xe"},
		{name: "only CJK characters", title: "車の部品", expected: "deck"},
		{name: "empty", title: "", expected: "deck"},
		{name: "ideographic space", title: "a　b", expected: "a_b"},
		{name: "punctuation collapses", title: "Car -- parts!", expected: "car_parts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SlugifyID(tt.title))
		})
	}
}

func TestUniqueDeckID(t *testing.T) {
	var c domain.Collection

	for _, expected := range []string{"car", "car_2", "car_3"} {
		id := UniqueDeckID("car", c)
		assert.Equal(t, expected, id)
		c.Decks = append(c.Decks, domain.Deck{ID: id})
	}
}
