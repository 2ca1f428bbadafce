package handler

import (
	"strings"

	"vocabdeck/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// clearQuery is sent to remove the search query
const clearQuery = "-"

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingQuery:
		return h.applyQuery(c, text)

	case domain.StateWaitingAnswer:
		return h.answerTyped(c, c.Text())

	case domain.StateWaitingImport:
		return h.receiveImport(c, []byte(text))

	case domain.StateWaitingDeckTitle:
		return h.importNewDeck(c, state, text)

	case domain.StateWaitingRestore:
		return h.restore(c, []byte(text))

	case domain.StateWaitingImportTo:
		// target buttons are pending; a new text replaces the payload
		return h.receiveImport(c, []byte(text))

	default:
		// Idle state - plain text is a search query
		return h.applyQuery(c, text)
	}
}

// handleSearch asks for a search query
func (h *Handler) handleSearch(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingQuery})
	return h.show(c, h.tr.T("search_prompt", ""), h.cancelMarkup())
}

// applyQuery sets the search query and shows the first matching card
func (h *Handler) applyQuery(c tele.Context, text string) error {
	userID := c.Sender().ID
	session := h.Session(userID)

	query := text
	if query == clearQuery {
		query = ""
	}
	session.SetQuery(query)
	h.ResetState(userID)

	_, total := session.Position()
	notice := h.tr.Tf("search_set", map[string]any{"query": orEmpty(h.tr, query), "count": total}, "")
	return h.showCard(c, session, false, notice)
}
