package handler

import (
	"errors"
	"fmt"
	"testing"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/i18n"
	"vocabdeck/internal/importer"
	"vocabdeck/internal/service"

	"github.com/stretchr/testify/assert"
)

func carItem() domain.Item {
	return domain.Item{
		ID:       "car_001",
		JP:       "車",
		Reading:  "くるま",
		VI:       "xe hơi",
		Tags:     []string{"oto", "n5"},
		Examples: []domain.Example{{JP: "車を運転する。", VI: "Lái xe."}},
	}
}

func TestCardText(t *testing.T) {
	tr := i18n.MustLoad("en")

	t.Run("front only", func(t *testing.T) {
		text := cardText(tr, carItem(), domain.DirectionJPToVI, domain.ItemUnseen, 0, 3, false)

		assert.Contains(t, text, "1/3")
		assert.Contains(t, text, "Front: 車")
		assert.Contains(t, text, "くるま")
		assert.Contains(t, text, "Tap the button")
		assert.NotContains(t, text, "xe hơi")
		assert.NotContains(t, text, "oto")
	})

	t.Run("flipped", func(t *testing.T) {
		text := cardText(tr, carItem(), domain.DirectionJPToVI, domain.ItemKnown, 1, 3, true)

		assert.Contains(t, text, "2/3")
		assert.Contains(t, text, "Back: xe hơi")
		assert.Contains(t, text, "🏷 oto, n5")
		assert.Contains(t, text, "車を運転する。 / Lái xe.")
		assert.NotContains(t, text, "Tap the button")
	})

	t.Run("reverse direction shows reading on the back", func(t *testing.T) {
		front := cardText(tr, carItem(), domain.DirectionVIToJP, domain.ItemUnseen, 0, 1, false)
		back := cardText(tr, carItem(), domain.DirectionVIToJP, domain.ItemUnseen, 0, 1, true)

		assert.Contains(t, front, "Front: xe hơi")
		assert.NotContains(t, front, "くるま")
		assert.Contains(t, back, "Back: 車")
		assert.Contains(t, back, "くるま")
	})

	t.Run("empty field", func(t *testing.T) {
		it := domain.Item{ID: "x", JP: "空"}
		text := cardText(tr, it, domain.DirectionJPToVI, domain.ItemUnseen, 0, 1, true)

		assert.Contains(t, text, "Back: "+tr.EmptyValue())
	})
}

func TestQuestionText(t *testing.T) {
	tr := i18n.MustLoad("en")

	q := &domain.Question{
		ID:         "q1",
		Direction:  domain.DirectionVIToJP,
		Kind:       domain.QuizTyped,
		AnswerItem: carItem(),
		Prompt:     "xe hơi",
		Answer:     "車",
		State:      domain.QuestionUnanswered,
	}

	open := questionText(tr, q, domain.Score{Right: 2, Wrong: 1})
	assert.Contains(t, open, "xe hơi")
	assert.Contains(t, open, "Score: ✅ 2 ❌ 1")
	assert.Contains(t, open, tr.T("quiz_type_hint", ""))
	assert.NotContains(t, open, "車")

	q.State = domain.QuestionAnswered
	q.Correct = false
	answered := questionText(tr, q, domain.Score{Right: 2, Wrong: 2})
	assert.Contains(t, answered, "❌ Wrong.")
	assert.Contains(t, answered, "Answer: 車 (くるま)")
	assert.NotContains(t, answered, tr.T("quiz_type_hint", ""))
}

func TestChoiceLabel(t *testing.T) {
	tr := i18n.MustLoad("en")

	assert.Equal(t, "車 (くるま)", choiceLabel(tr, domain.Choice{Text: "車", Reading: "くるま"}))
	assert.Equal(t, "xe", choiceLabel(tr, domain.Choice{Text: "xe"}))
	assert.Equal(t, tr.EmptyValue(), choiceLabel(tr, domain.Choice{}))
}

func TestImportErrorText(t *testing.T) {
	tr := i18n.MustLoad("en")

	tests := []struct {
		name     string
		err      error
		mode     service.ImportMode
		expected string
	}{
		{
			name:     "malformed",
			err:      fmt.Errorf("%w: unexpected end of JSON input", service.ErrMalformedInput),
			expected: "Invalid JSON: unexpected end of JSON input",
		},
		{
			name:     "no items",
			err:      service.ErrEmptyImport,
			expected: "No valid items found.",
		},
		{
			name:     "append without deck",
			err:      fmt.Errorf("%w: no deck to append to", service.ErrMissingTarget),
			mode:     service.ImportAppend,
			expected: "Choose a deck to append to.",
		},
		{
			name:     "new deck without title",
			err:      fmt.Errorf("%w: new deck title is empty", service.ErrMissingTarget),
			mode:     service.ImportNewDeck,
			expected: "A deck title is required.",
		},
		{
			name:     "unsupported file",
			err:      fmt.Errorf("%w: .pdf", importer.ErrUnsupportedFormat),
			expected: tr.T("import_unsupported", ""),
		},
		{
			name:     "anything else",
			err:      errors.New("disk full"),
			expected: "Something went wrong. Try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, importErrorText(tr, tt.err, tt.mode))
		})
	}
}

func TestAIPrompt(t *testing.T) {
	tr := i18n.MustLoad("en")

	withTopic := aiPrompt(tr, "Lái xe ô tô")
	assert.Contains(t, withTopic, `"Lái xe ô tô"`)
	assert.Contains(t, withTopic, "[NUMBER]")
	assert.Contains(t, withTopic, `"items"`)

	placeholder := aiPrompt(tr, "")
	assert.Contains(t, placeholder, "[YOUR TOPIC]")
	assert.NotContains(t, placeholder, "{topic}")
}
