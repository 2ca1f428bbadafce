package handler

import (
	"errors"
	"fmt"
	"strings"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/i18n"
	"vocabdeck/internal/importer"
	"vocabdeck/internal/service"
)

// orEmpty replaces an empty field with the empty marker
func orEmpty(tr i18n.Translator, s string) string {
	if strings.TrimSpace(s) == "" {
		return tr.T("empty_value", "-")
	}
	return s
}

func directionLabel(tr i18n.Translator, dir domain.Direction) string {
	if dir == domain.DirectionVIToJP {
		return tr.T("quiz_meta_vi_to_jp", "VI → JP")
	}
	return tr.T("quiz_meta_jp_to_vi", "JP → VI")
}

func kindLabel(tr i18n.Translator, kind domain.QuizKind) string {
	if kind == domain.QuizTyped {
		return tr.T("quiz_meta_type", "")
	}
	return tr.T("quiz_meta_mc", "")
}

func stateLabel(tr i18n.Translator, state domain.ItemState) string {
	switch state {
	case domain.ItemKnown:
		return tr.T("state_known", "")
	case domain.ItemLearning:
		return tr.T("state_learning", "")
	}
	return tr.T("state_unseen", "")
}

func filterLabel(tr i18n.Translator, f domain.StatusFilter) string {
	switch f {
	case domain.FilterKnown:
		return tr.T("filter_known", "")
	case domain.FilterLearning:
		return tr.T("filter_learning", "")
	}
	return tr.T("filter_all", "")
}

func scoreText(tr i18n.Translator, score domain.Score) string {
	return tr.Tf("score_text", map[string]any{"right": score.Right, "wrong": score.Wrong}, "")
}

func menuText(tr i18n.Translator, s *service.StudySession) string {
	title := tr.T("no_deck", "")
	if deck, ok := s.Deck(); ok {
		title = deck.Title
	}
	score := s.Score()
	return tr.Tf("menu_title", map[string]any{
		"deck":      title,
		"direction": directionLabel(tr, s.Direction()),
		"right":     score.Right,
		"wrong":     score.Wrong,
	}, "")
}

// cardText renders a flashcard. The back side, tags and example are shown
// only once the card is flipped.
func cardText(tr i18n.Translator, it domain.Item, dir domain.Direction, state domain.ItemState, pos, total int, flipped bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🃏 %s · %s\n\n",
		tr.Tf("card_counter", map[string]any{"pos": pos + 1, "total": total}, "{pos}/{total}"),
		stateLabel(tr, state),
	)
	fmt.Fprintf(&b, "%s: %s\n", tr.T("card_front", ""), orEmpty(tr, dir.PromptField(it)))
	if dir == domain.DirectionJPToVI && it.Reading != "" {
		fmt.Fprintf(&b, "%s: %s\n", tr.T("reading_label", ""), it.Reading)
	}

	if !flipped {
		b.WriteString("\n" + tr.T("card_hint_flip", ""))
		return b.String()
	}

	fmt.Fprintf(&b, "%s: %s\n", tr.T("card_back", ""), orEmpty(tr, dir.AnswerField(it)))
	if dir == domain.DirectionVIToJP && it.Reading != "" {
		fmt.Fprintf(&b, "%s: %s\n", tr.T("reading_label", ""), it.Reading)
	}
	if len(it.Tags) > 0 {
		fmt.Fprintf(&b, "\n🏷 %s\n", strings.Join(it.Tags, tr.T("card_tags_sep", ", ")))
	}
	if len(it.Examples) > 0 {
		ex := it.Examples[0]
		fmt.Fprintf(&b, "\n%s: %s / %s\n", tr.T("hint_example", ""), orEmpty(tr, ex.JP), orEmpty(tr, ex.VI))
	}
	return strings.TrimRight(b.String(), "\n")
}

// choiceLabel is the button text of a multiple-choice option
func choiceLabel(tr i18n.Translator, c domain.Choice) string {
	label := orEmpty(tr, c.Text)
	if c.Reading != "" {
		label += " (" + c.Reading + ")"
	}
	return label
}

// questionText renders a question, with the feedback once it is answered
func questionText(tr i18n.Translator, q *domain.Question, score domain.Score) string {
	var b strings.Builder

	fmt.Fprintf(&b, "❓ %s · %s\n%s\n\n", kindLabel(tr, q.Kind), directionLabel(tr, q.Direction), scoreText(tr, score))
	b.WriteString(q.Prompt)

	if !q.Answered() {
		if q.Kind == domain.QuizTyped {
			b.WriteString("\n\n" + tr.T("quiz_type_hint", ""))
		}
		return b.String()
	}

	feedback := tr.T("feedback_wrong", "")
	if q.Correct {
		feedback = tr.T("feedback_correct", "")
	}
	fmt.Fprintf(&b, "\n\n%s\n%s: %s", feedback, tr.T("answer_label", ""), revealText(q))
	return b.String()
}

// revealText is the answer with its reading when the answer is source text
func revealText(q *domain.Question) string {
	if q.Direction == domain.DirectionVIToJP && q.AnswerItem.Reading != "" {
		return q.Answer + " (" + q.AnswerItem.Reading + ")"
	}
	return q.Answer
}

func statsText(tr i18n.Translator, st service.DeckStats) string {
	return tr.Tf("stats_text", map[string]any{
		"title":    st.Title,
		"total":    st.Total,
		"known":    st.Known,
		"learning": st.Learning,
	}, "")
}

// importErrorText maps import failures to the message shown to the user
func importErrorText(tr i18n.Translator, err error, mode service.ImportMode) string {
	switch {
	case errors.Is(err, service.ErrMalformedInput):
		detail := strings.TrimPrefix(err.Error(), service.ErrMalformedInput.Error()+": ")
		return tr.Tf("json_error_invalid", map[string]any{"error": detail}, "")
	case errors.Is(err, service.ErrEmptyImport):
		return tr.T("json_error_no_items", "")
	case errors.Is(err, service.ErrMissingTarget):
		if mode == service.ImportAppend {
			return tr.T("json_error_no_deck_append", "")
		}
		return tr.T("json_error_title_required", "")
	case errors.Is(err, importer.ErrUnsupportedFormat):
		return tr.T("import_unsupported", "")
	}
	return tr.T("internal_error", "")
}

// aiPrompt builds the prompt that asks a chat model for importable JSON
func aiPrompt(tr i18n.Translator, topic string) string {
	if topic == "" {
		topic = tr.T("ai_topic_placeholder", "[YOUR TOPIC]")
	}
	return tr.Tf("json_ai_prompt_template", map[string]any{
		"topic": topic,
		"count": tr.T("ai_count_placeholder", "[NUMBER]"),
	}, "")
}
