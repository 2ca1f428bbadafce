package handler

import (
	"errors"
	"strconv"

	"vocabdeck/internal/domain"
	"vocabdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// quizMarkup shows the options of an open multiple-choice question, or the
// follow-up actions once it is answered
func (h *Handler) quizMarkup(q *domain.Question) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	if !q.Answered() {
		// options are bound to the question, so buttons of an old question are rejected
		for i, choice := range q.Choices {
			rows = append(rows, markup.Row(markup.Data(choiceLabel(h.tr, choice), uniqueQuizChoice, q.ID, strconv.Itoa(i))))
		}
		rows = append(rows, markup.Row(h.btn(markup, "btn_show_answer", uniqueQuizShow, q.ID)))
	} else {
		rows = append(rows, markup.Row(h.btn(markup, "btn_next_question", uniqueQuiz)))
	}

	rows = append(rows, markup.Row(
		h.btn(markup, "btn_quiz_kind", uniqueQuizKind, string(otherQuizKind(q.Kind))),
		h.btn(markup, "btn_menu", uniqueMenu),
	))
	markup.Inline(rows...)
	return markup
}

func (h *Handler) showQuestion(c tele.Context, session *service.StudySession) error {
	q := session.Question()
	return h.show(c, questionText(h.tr, q, session.Score()), h.quizMarkup(q))
}

// handleQuiz asks a new question from the current quiz pool
func (h *Handler) handleQuiz(c tele.Context) error {
	userID := c.Sender().ID
	session := h.Session(userID)

	q, err := session.NewQuestion()
	switch {
	case errors.Is(err, service.ErrNoDeckSelected):
		return h.notify(c, h.tr.T("no_deck_import", ""))
	case errors.Is(err, service.ErrNoItems):
		return h.notify(c, h.tr.T("quiz_empty", ""))
	case err != nil:
		return h.fail(c, "Failed to create question", err)
	}

	if q.Kind == domain.QuizTyped {
		h.SetState(userID, &domain.StateData{State: domain.StateWaitingAnswer})
	} else {
		h.ResetState(userID)
	}
	return h.showQuestion(c, session)
}

// activeQuestion returns the session question when the callback belongs to it
func (h *Handler) activeQuestion(session *service.StudySession, questionID string) (*domain.Question, bool) {
	q := session.Question()
	if q == nil || q.ID != questionID {
		return nil, false
	}
	return q, true
}

// handleQuizChoice answers with the chosen option
func (h *Handler) handleQuizChoice(c tele.Context) error {
	userID := c.Sender().ID
	session := h.Session(userID)

	args := callbackArgs(c)
	if len(args) != 2 {
		return h.notify(c, h.tr.T("quiz_stale", ""))
	}
	q, ok := h.activeQuestion(session, args[0])
	if !ok {
		return h.notify(c, h.tr.T("quiz_stale", ""))
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil || idx < 0 || idx >= len(q.Choices) {
		return h.notify(c, h.tr.T("quiz_stale", ""))
	}

	correct, err := session.AnswerChoice(q.Choices[idx].ItemID)
	if errors.Is(err, service.ErrAlreadyAnswered) {
		return h.notify(c, h.tr.T("quiz_answered", ""))
	}
	if err != nil {
		return h.fail(c, "Failed to record answer", err)
	}

	h.logger.Debug("Quiz answered",
		zap.Int64("user_id", userID),
		zap.String("question_id", q.ID),
		zap.Bool("correct", correct),
	)
	return h.showQuestion(c, session)
}

// handleQuizShow reveals the answer. It counts as a wrong answer.
func (h *Handler) handleQuizShow(c tele.Context) error {
	userID := c.Sender().ID
	session := h.Session(userID)

	args := callbackArgs(c)
	if len(args) != 1 {
		return h.notify(c, h.tr.T("quiz_stale", ""))
	}
	q, ok := h.activeQuestion(session, args[0])
	if !ok {
		return h.notify(c, h.tr.T("quiz_stale", ""))
	}
	if q.Answered() {
		return h.showQuestion(c, session)
	}

	if err := session.Reveal(); err != nil && !errors.Is(err, service.ErrAlreadyAnswered) {
		return h.fail(c, "Failed to reveal answer", err)
	}

	h.ResetState(userID)
	return h.showQuestion(c, session)
}

func otherQuizKind(k domain.QuizKind) domain.QuizKind {
	if k == domain.QuizTyped {
		return domain.QuizMultipleChoice
	}
	return domain.QuizTyped
}

// handleQuizKind switches to the answer style carried by the button.
// A button without data toggles the current style.
func (h *Handler) handleQuizKind(c tele.Context) error {
	session := h.Session(c.Sender().ID)
	kind := otherQuizKind(session.QuizKind())
	if args := callbackArgs(c); len(args) == 1 {
		kind = domain.ParseQuizKind(args[0])
	}
	session.SetQuizKind(kind)
	return h.handleQuiz(c)
}

// answerTyped handles text sent while a typed question is open
func (h *Handler) answerTyped(c tele.Context, text string) error {
	userID := c.Sender().ID
	session := h.Session(userID)

	_, err := session.AnswerText(text)
	switch {
	case errors.Is(err, service.ErrEmptyAnswer):
		return c.Send(h.tr.T("answer_empty", ""))
	case errors.Is(err, service.ErrNoActiveQuestion), errors.Is(err, service.ErrAlreadyAnswered):
		h.ResetState(userID)
		return c.Send(h.tr.T("quiz_stale", ""), h.backMarkup())
	case err != nil:
		return h.fail(c, "Failed to record answer", err)
	}

	h.ResetState(userID)
	return h.showQuestion(c, session)
}
