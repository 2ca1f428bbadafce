package middleware

import (
	tele "gopkg.in/telebot.v3"
)

// Runner executes one operation at a time
type Runner interface {
	Run(fn func() error) error
}

// Serialize runs every update inside the runner, so updates never touch the
// study state concurrently
func Serialize(r Runner) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			return r.Run(func() error {
				return next(c)
			})
		}
	}
}
