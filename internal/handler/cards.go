package handler

import (
	"errors"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// showCard renders the active flashcard, with an optional notice on top
func (h *Handler) showCard(c tele.Context, session *service.StudySession, flipped bool, notice string) error {
	it, ok := session.ActiveItem()
	if !ok {
		text := h.tr.T("no_cards", "")
		if _, hasDeck := session.Deck(); !hasDeck {
			text = h.tr.T("no_deck_import", "")
		}
		return h.show(c, text, h.backMarkup())
	}

	pos, total := session.Position()
	text := cardText(h.tr, it, session.Direction(), session.ItemState(it.ID), pos, total, flipped)
	if notice != "" {
		text = notice + "\n\n" + text
	}
	return h.show(c, text, h.cardMarkup(pos, total, flipped))
}

func (h *Handler) cardMarkup(pos, total int, flipped bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	nav := tele.Row{}
	if pos > 0 {
		nav = append(nav, h.btn(markup, "btn_prev", uniqueCardPrev))
	}
	if !flipped {
		nav = append(nav, h.btn(markup, "btn_flip", uniqueCardFlip))
	}
	if pos+1 < total {
		nav = append(nav, h.btn(markup, "btn_next", uniqueCardNext))
	}

	markup.Inline(
		nav,
		markup.Row(
			h.btn(markup, "btn_known", uniqueCardMark, string(domain.StatusKnown)),
			h.btn(markup, "btn_learning", uniqueCardMark, string(domain.StatusLearning)),
		),
		markup.Row(h.btn(markup, "btn_menu", uniqueMenu)),
	)
	return markup
}

// handleCards opens the flashcards at the current position
func (h *Handler) handleCards(c tele.Context) error {
	return h.showCard(c, h.Session(c.Sender().ID), false, "")
}

func (h *Handler) handleCardPrev(c tele.Context) error {
	session := h.Session(c.Sender().ID)
	session.Prev()
	return h.showCard(c, session, false, "")
}

func (h *Handler) handleCardNext(c tele.Context) error {
	session := h.Session(c.Sender().ID)
	session.Next()
	return h.showCard(c, session, false, "")
}

func (h *Handler) handleCardFlip(c tele.Context) error {
	return h.showCard(c, h.Session(c.Sender().ID), true, "")
}

// handleCardMark toggles the status carried by the button
func (h *Handler) handleCardMark(c tele.Context) error {
	args := callbackArgs(c)
	if len(args) != 1 {
		return h.handleCards(c)
	}
	status, err := domain.ParseStatus(args[0])
	if err != nil || status == domain.StatusClear {
		h.logger.Warn("Unexpected card mark", zap.Int64("user_id", c.Sender().ID), zap.String("data", args[0]))
		return h.handleCards(c)
	}
	return h.toggleCard(c, status)
}

// toggleCard marks the active card, or clears the mark if it is already set.
// The card stays flipped so the user sees what was marked.
func (h *Handler) toggleCard(c tele.Context, status domain.Status) error {
	session := h.Session(c.Sender().ID)

	var err error
	if status == domain.StatusKnown {
		_, err = session.ToggleKnown()
	} else {
		_, err = session.ToggleLearning()
	}
	if errors.Is(err, service.ErrNoActiveItem) {
		return h.showCard(c, session, false, "")
	}
	if err != nil {
		return h.fail(c, "Failed to update progress", err)
	}
	return h.showCard(c, session, true, "")
}
