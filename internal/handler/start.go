package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start and shows the main menu
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	if c.Callback() == nil {
		h.logger.Info("User opened menu",
			zap.Int64("user_id", userID),
			zap.String("username", c.Sender().Username),
		)
	}

	h.ResetState(userID)
	return h.show(c, menuText(h.tr, h.Session(userID)), h.mainMenuMarkup())
}

// HandleAuthorized greets a user who just sent the right password
func (h *Handler) HandleAuthorized(c tele.Context) error {
	userID := c.Sender().ID
	h.logger.Info("User authorized", zap.Int64("user_id", userID))

	h.ResetState(userID)
	return c.Send(
		h.tr.T("access_granted", "")+"\n\n"+menuText(h.tr, h.Session(userID)),
		h.mainMenuMarkup(),
	)
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	return h.handleStart(c)
}
