package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackArgs splits the payload of a callback button
func callbackArgs(c tele.Context) []string {
	if c.Callback() == nil {
		return nil
	}
	data := cleanCallbackData(c.Callback().Data)
	if data == "" {
		return nil
	}
	return strings.Split(data, "|")
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Pressing the same button twice re-renders identical content
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message not modified, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// show edits the message behind a callback, or sends a new one for commands
// and text input
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

// notify shows a short message: a callback toast, or a chat message
func (h *Handler) notify(c tele.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}

// fail logs an unexpected error and tells the user
func (h *Handler) fail(c tele.Context, msg string, err error) error {
	h.logger.Error(msg, zap.Error(err), zap.Int64("user_id", c.Sender().ID))
	return h.notify(c, h.tr.T("internal_error", ""))
}

// handleCallback handles callbacks no button route matched
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	h.logger.Warn("Unhandled callback",
		zap.String("data", cleanCallbackData(callback.Data)),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)
	return c.Respond()
}

// handleDecks lists the decks that have items
func (h *Handler) handleDecks(c tele.Context) error {
	session := h.Session(c.Sender().ID)
	decks := h.app.Library.UsableDecks()
	if len(decks) == 0 {
		return h.notify(c, h.tr.T("no_deck_import", ""))
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(decks)+1)
	for i, deck := range decks {
		label := fmt.Sprintf("%s (%d)", deck.Title, len(deck.Items))
		if deck.ID == session.DeckID() {
			label = "• " + label
		}
		// deck IDs can outgrow the 64-byte callback limit, so buttons carry the position
		rows = append(rows, markup.Row(markup.Data(label, uniqueDeck, strconv.Itoa(i))))
	}
	rows = append(rows, markup.Row(h.btn(markup, "btn_menu", uniqueMenu)))
	markup.Inline(rows...)

	return h.show(c, h.tr.T("decks_title", ""), markup)
}

// handleDeckSelect switches the session to the chosen deck
func (h *Handler) handleDeckSelect(c tele.Context) error {
	args := callbackArgs(c)
	decks := h.app.Library.UsableDecks()

	idx := -1
	if len(args) == 1 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			idx = v
		}
	}
	if idx < 0 || idx >= len(decks) {
		return h.handleDecks(c)
	}

	session := h.Session(c.Sender().ID)
	if err := session.SelectDeck(decks[idx].ID); err != nil {
		return h.handleDecks(c)
	}
	return h.handleStart(c)
}

// handleFilter shows the flashcard status filter choices
func (h *Handler) handleFilter(c tele.Context) error {
	current := h.Session(c.Sender().ID).StatusFilter()

	markup := &tele.ReplyMarkup{}
	row := tele.Row{}
	for _, f := range []domain.StatusFilter{domain.FilterAll, domain.FilterKnown, domain.FilterLearning} {
		label := filterLabel(h.tr, f)
		if f == current {
			label = "• " + label
		}
		row = append(row, markup.Data(label, uniqueFilterSet, string(f)))
	}
	markup.Inline(row, markup.Row(h.btn(markup, "btn_menu", uniqueMenu)))

	return h.show(c, h.tr.T("filter_title", ""), markup)
}

func (h *Handler) handleFilterSet(c tele.Context) error {
	args := callbackArgs(c)
	if len(args) != 1 {
		return h.handleFilter(c)
	}
	h.Session(c.Sender().ID).SetStatusFilter(domain.ParseStatusFilter(args[0]))
	return h.handleCards(c)
}

// handleDirection shows the study direction choices
func (h *Handler) handleDirection(c tele.Context) error {
	current := h.Session(c.Sender().ID).Direction()

	markup := &tele.ReplyMarkup{}
	row := tele.Row{}
	for _, d := range []domain.Direction{domain.DirectionJPToVI, domain.DirectionVIToJP} {
		label := directionLabel(h.tr, d)
		if d == current {
			label = "• " + label
		}
		row = append(row, markup.Data(label, uniqueDirectionSet, string(d)))
	}
	markup.Inline(row, markup.Row(h.btn(markup, "btn_menu", uniqueMenu)))

	return h.show(c, h.tr.T("direction_title", ""), markup)
}

func (h *Handler) handleDirectionSet(c tele.Context) error {
	args := callbackArgs(c)
	if len(args) != 1 {
		return h.handleDirection(c)
	}
	h.Session(c.Sender().ID).SetDirection(domain.ParseDirection(args[0]))
	return h.handleStart(c)
}

// handleStats shows the totals of every deck, current deck first
func (h *Handler) handleStats(c tele.Context) error {
	session := h.Session(c.Sender().ID)

	overview := h.app.Stats.Overview()
	if len(overview) == 0 {
		return h.notify(c, h.tr.T("no_deck_import", ""))
	}

	parts := make([]string, 0, len(overview)+1)
	for _, st := range overview {
		if st.DeckID == session.DeckID() {
			parts = append([]string{statsText(h.tr, st)}, parts...)
			continue
		}
		parts = append(parts, statsText(h.tr, st))
	}
	parts = append(parts, scoreText(h.tr, session.Score()))

	return h.show(c, strings.Join(parts, "\n\n"), h.backMarkup())
}

// confirmMarkup asks before a destructive action
func (h *Handler) confirmMarkup(yesUnique string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		h.btn(markup, "btn_yes", yesUnique),
		h.btn(markup, "btn_cancel", uniqueMenu),
	))
	return markup
}

func (h *Handler) handleReset(c tele.Context) error {
	if _, ok := h.Session(c.Sender().ID).Deck(); !ok {
		return h.notify(c, h.tr.T("no_deck_import", ""))
	}
	return h.show(c, h.tr.T("confirm_reset_progress", ""), h.confirmMarkup(uniqueResetYes))
}

func (h *Handler) handleResetConfirm(c tele.Context) error {
	userID := c.Sender().ID
	session := h.Session(userID)
	if err := session.ResetProgress(); err != nil {
		return h.fail(c, "Failed to reset progress", err)
	}
	h.logger.Info("Progress reset",
		zap.Int64("user_id", userID),
		zap.String("deck_id", session.DeckID()),
	)
	h.reloadSessions(userID)
	return h.show(c, h.tr.T("reset_done", "")+"\n\n"+menuText(h.tr, session), h.mainMenuMarkup())
}

func (h *Handler) handleShuffle(c tele.Context) error {
	userID := c.Sender().ID
	session := h.Session(userID)
	if err := session.Shuffle(); err != nil {
		if errors.Is(err, service.ErrNoDeckSelected) {
			return h.notify(c, h.tr.T("no_deck_import", ""))
		}
		return h.fail(c, "Failed to shuffle deck", err)
	}
	h.reloadSessions(userID)
	return h.showCard(c, session, false, h.tr.T("shuffle_done", ""))
}

func (h *Handler) handleDelete(c tele.Context) error {
	deck, ok := h.Session(c.Sender().ID).Deck()
	if !ok {
		return h.notify(c, h.tr.T("no_deck_import", ""))
	}
	text := h.tr.Tf("confirm_delete_deck", map[string]any{"title": deck.Title}, "")
	return h.show(c, text, h.confirmMarkup(uniqueDeleteYes))
}

func (h *Handler) handleDeleteConfirm(c tele.Context) error {
	userID := c.Sender().ID
	session := h.Session(userID)
	deckID := session.DeckID()
	if err := session.DeleteDeck(); err != nil {
		return h.fail(c, "Failed to delete deck", err)
	}
	h.logger.Info("Deck deleted",
		zap.Int64("user_id", userID),
		zap.String("deck_id", deckID),
	)
	h.reloadSessions(userID)
	return h.show(c, h.tr.T("delete_done", "")+"\n\n"+menuText(h.tr, session), h.mainMenuMarkup())
}

// handleExport sends every deck as its own JSON document
func (h *Handler) handleExport(c tele.Context) error {
	files := h.app.Library.ExportDecks()
	for _, f := range files {
		if err := h.sendJSON(c, f.Name, f.Payload, ""); err != nil {
			return h.fail(c, "Failed to send export", err)
		}
	}
	if c.Callback() != nil {
		_ = c.Respond()
	}
	return c.Send(h.tr.Tf("export_done", map[string]any{"count": len(files)}, ""), h.backMarkup())
}

// handleBackup sends the collection and progress as one document
func (h *Handler) handleBackup(c tele.Context) error {
	if err := h.sendJSON(c, service.BackupFileName, h.app.Library.Backup(), h.tr.T("backup_caption", "")); err != nil {
		return h.fail(c, "Failed to send backup", err)
	}
	if c.Callback() != nil {
		return c.Respond()
	}
	return nil
}

func (h *Handler) sendJSON(c tele.Context, name string, payload any, caption string) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: name,
		MIME:     "application/json",
		Caption:  caption,
	})
}

// handleRestore waits for a backup document
func (h *Handler) handleRestore(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingRestore})
	return h.show(c, h.tr.T("restore_prompt", ""), h.cancelMarkup())
}

// handleAIPrompt shows a prompt for generating importable JSON with a chat
// model, using the current deck as topic
func (h *Handler) handleAIPrompt(c tele.Context) error {
	topic := ""
	if deck, ok := h.Session(c.Sender().ID).Deck(); ok {
		topic = deck.Title
	}
	return h.show(c, aiPrompt(h.tr, topic), h.backMarkup())
}
