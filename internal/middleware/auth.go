package middleware

import (
	"strings"

	"vocabdeck/internal/i18n"
	"vocabdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AuthMiddleware lets authorized users through. Everyone else is asked for
// the bot password; a plain text message matching it authorizes the user
// and is handed to onAuthorized instead of the regular handler.
func AuthMiddleware(authService *service.AuthService, tr i18n.Translator, onAuthorized tele.HandlerFunc, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil {
				return nil
			}
			userID := c.Sender().ID

			// Ensure user exists
			if err := authService.EnsureUserExists(userID); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return c.Send(tr.T("internal_error", ""))
			}

			// Check authorization
			authorized, err := authService.IsAuthorized(userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send(tr.T("internal_error", ""))
			}
			if authorized {
				return next(c)
			}

			if c.Callback() != nil {
				_ = c.Respond()
				return c.Send(tr.T("welcome_password", ""))
			}

			text := strings.TrimSpace(c.Text())
			if text == "" || strings.HasPrefix(text, "/") {
				return c.Send(tr.T("welcome_password", ""))
			}

			if !authService.CheckPassword(text) {
				logger.Info("Wrong password", zap.Int64("user_id", userID))
				return c.Send(tr.T("wrong_password", ""))
			}

			if err := authService.AuthorizeUser(userID); err != nil {
				logger.Error("Failed to authorize user", zap.Error(err))
				return c.Send(tr.T("internal_error", ""))
			}
			return onAuthorized(c)
		}
	}
}
