package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/importer"
	"vocabdeck/internal/normalize"
	"vocabdeck/internal/seed"
	"vocabdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// maxUploadSize bounds the size of an uploaded import or backup file
const maxUploadSize = 10 << 20

// handleImport waits for a JSON payload or a spreadsheet
func (h *Handler) handleImport(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingImport})

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(h.btn(markup, "btn_ai_prompt", uniqueAIPrompt)),
		markup.Row(h.btn(markup, "btn_cancel", uniqueCancel)),
	)
	text := h.tr.T("import_prompt", "") + "\n\n" + h.tr.T("import_example", "") + "\n" + string(seed.QuickImport())
	return h.show(c, text, markup)
}

// receiveImport validates a JSON payload and asks where its items go
func (h *Handler) receiveImport(c tele.Context, payload []byte) error {
	parsed, err := normalize.Decode(payload)
	if err != nil {
		msg := importErrorText(h.tr, fmt.Errorf("%w: %v", service.ErrMalformedInput, err), "")
		return c.Send(msg, h.cancelMarkup())
	}

	items := normalize.ExtractImportItems(parsed)
	if len(items) == 0 {
		return c.Send(importErrorText(h.tr, service.ErrEmptyImport, ""), h.cancelMarkup())
	}

	h.SetState(c.Sender().ID, &domain.StateData{
		State:   domain.StateWaitingImportTo,
		Payload: string(payload),
	})
	return h.askImportTarget(c, len(items))
}

// receiveItems keeps spreadsheet rows and asks where they go
func (h *Handler) receiveItems(c tele.Context, items []domain.Item) error {
	if len(items) == 0 {
		return c.Send(importErrorText(h.tr, service.ErrEmptyImport, ""), h.cancelMarkup())
	}

	h.SetState(c.Sender().ID, &domain.StateData{
		State: domain.StateWaitingImportTo,
		Items: items,
	})
	return h.askImportTarget(c, len(items))
}

func (h *Handler) askImportTarget(c tele.Context, count int) error {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	if _, ok := h.Session(c.Sender().ID).Deck(); ok {
		rows = append(rows, markup.Row(h.btn(markup, "btn_append", uniqueImportAppend)))
	}
	rows = append(rows,
		markup.Row(h.btn(markup, "btn_new_deck", uniqueImportNew)),
		markup.Row(h.btn(markup, "btn_cancel", uniqueCancel)),
	)
	markup.Inline(rows...)

	return c.Send(h.tr.Tf("import_target", map[string]any{"count": count}, ""), markup)
}

// handleImportAppend adds the pending items to the current deck
func (h *Handler) handleImportAppend(c tele.Context) error {
	state := h.GetState(c.Sender().ID)
	if state.State != domain.StateWaitingImportTo {
		return h.notify(c, h.tr.T("json_error_no_items", ""))
	}

	target := service.ImportTarget{
		Mode:   service.ImportAppend,
		DeckID: h.Session(c.Sender().ID).DeckID(),
	}
	return h.runImport(c, state, target)
}

// handleImportNew asks for the title of the deck the pending items go to
func (h *Handler) handleImportNew(c tele.Context) error {
	userID := c.Sender().ID
	state := h.GetState(userID)
	if state.State != domain.StateWaitingImportTo {
		return h.notify(c, h.tr.T("json_error_no_items", ""))
	}

	h.SetState(userID, &domain.StateData{
		State:   domain.StateWaitingDeckTitle,
		Payload: state.Payload,
		Items:   state.Items,
	})
	return h.show(c, h.tr.T("ask_deck_title", ""), h.cancelMarkup())
}

// importNewDeck imports the pending items into a new deck named title
func (h *Handler) importNewDeck(c tele.Context, state *domain.StateData, title string) error {
	target := service.ImportTarget{Mode: service.ImportNewDeck, Title: title}
	return h.runImport(c, state, target)
}

func (h *Handler) runImport(c tele.Context, state *domain.StateData, target service.ImportTarget) error {
	userID := c.Sender().ID
	session := h.Session(userID)

	var (
		deck domain.Deck
		err  error
	)
	if state.Items != nil {
		deck, err = session.ImportItems(state.Items, target)
	} else {
		deck, err = session.Import([]byte(state.Payload), target)
	}

	if err != nil {
		if !isImportError(err) {
			h.ResetState(userID)
			return h.fail(c, "Failed to import items", err)
		}
		// an empty title keeps the user in the title prompt
		if !(errors.Is(err, service.ErrMissingTarget) && target.Mode == service.ImportNewDeck) {
			h.ResetState(userID)
		}
		return h.notify(c, importErrorText(h.tr, err, target.Mode))
	}

	h.logger.Info("Items imported",
		zap.Int64("user_id", userID),
		zap.String("deck_id", deck.ID),
		zap.String("mode", string(target.Mode)),
	)

	h.ResetState(userID)
	h.reloadSessions(userID)
	count := len(state.Items)
	if state.Items == nil {
		if parsed, err := normalize.Decode([]byte(state.Payload)); err == nil {
			count = len(normalize.ExtractImportItems(parsed))
		}
	}
	notice := h.tr.Tf("import_done", map[string]any{"count": count, "title": deck.Title}, "")
	return h.show(c, notice+"\n\n"+menuText(h.tr, session), h.mainMenuMarkup())
}

func isImportError(err error) bool {
	return errors.Is(err, service.ErrMalformedInput) ||
		errors.Is(err, service.ErrEmptyImport) ||
		errors.Is(err, service.ErrMissingTarget)
}

// restore replaces the collection and progress with a backup
func (h *Handler) restore(c tele.Context, payload []byte) error {
	userID := c.Sender().ID

	if err := h.app.Library.RestoreBackup(payload); err != nil {
		if errors.Is(err, service.ErrMalformedInput) {
			return c.Send(importErrorText(h.tr, err, ""), h.cancelMarkup())
		}
		h.ResetState(userID)
		return h.fail(c, "Failed to restore backup", err)
	}

	h.logger.Info("Backup restored", zap.Int64("user_id", userID))
	h.ResetState(userID)
	h.Session(userID).Reload()
	h.reloadSessions(userID)
	return c.Send(h.tr.T("restore_done", "")+"\n\n"+menuText(h.tr, h.Session(userID)), h.mainMenuMarkup())
}

// handleDocument imports an uploaded JSON or spreadsheet file, or restores
// an uploaded backup
func (h *Handler) handleDocument(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Document == nil {
		return nil
	}
	doc := msg.Document
	userID := c.Sender().ID

	format, err := importer.DetectFormat(doc.FileName)
	if err != nil {
		return c.Send(importErrorText(h.tr, err, ""))
	}

	data, err := h.download(doc)
	if err != nil {
		return h.fail(c, "Failed to download document", err)
	}

	if h.GetState(userID).State == domain.StateWaitingRestore {
		return h.restore(c, data)
	}

	if format == importer.FormatJSON {
		return h.receiveImport(c, data)
	}

	items, err := importer.Read(bytes.NewReader(data), format, importer.Options{})
	if err != nil {
		h.logger.Warn("Failed to read spreadsheet",
			zap.Int64("user_id", userID),
			zap.String("file", doc.FileName),
			zap.Error(err),
		)
		return c.Send(importErrorText(h.tr, fmt.Errorf("%w: %v", service.ErrMalformedInput, err), ""), h.cancelMarkup())
	}
	return h.receiveItems(c, items)
}

func (h *Handler) download(doc *tele.Document) ([]byte, error) {
	rc, err := h.bot.File(&doc.File)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(io.LimitReader(rc, maxUploadSize))
}
