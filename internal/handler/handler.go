package handler

import (
	"sync"

	"vocabdeck/internal/app"
	"vocabdeck/internal/domain"
	"vocabdeck/internal/i18n"
	"vocabdeck/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot         *tele.Bot
	app         *app.App
	authService *service.AuthService
	tr          i18n.Translator
	logger      *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Study sessions, one per user over the shared collection
	sessions   map[int64]*service.StudySession
	sessionMux sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	a *app.App,
	authService *service.AuthService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:         bot,
		app:         a,
		authService: authService,
		tr:          a.Translator,
		logger:      logger,
		states:      make(map[int64]*domain.StateData),
		sessions:    make(map[int64]*service.StudySession),
	}
}

// Callback button identifiers
const (
	uniqueMenu         = "menu"
	uniqueCancel       = "cancel"
	uniqueDecks        = "decks"
	uniqueDeck         = "deck"
	uniqueCards        = "cards"
	uniqueCardPrev     = "card_prev"
	uniqueCardNext     = "card_next"
	uniqueCardFlip     = "card_flip"
	uniqueCardMark     = "card_mark"
	uniqueQuiz         = "quiz"
	uniqueQuizChoice   = "quiz_choice"
	uniqueQuizShow     = "quiz_show"
	uniqueQuizKind     = "quiz_kind"
	uniqueSearch       = "search"
	uniqueFilter       = "filter"
	uniqueFilterSet    = "filter_set"
	uniqueDirection    = "direction"
	uniqueDirectionSet = "direction_set"
	uniqueImport       = "import"
	uniqueImportAppend = "import_append"
	uniqueImportNew    = "import_new"
	uniqueExport       = "export"
	uniqueBackup       = "backup"
	uniqueRestore      = "restore"
	uniqueStats        = "stats"
	uniqueReset        = "reset"
	uniqueResetYes     = "reset_yes"
	uniqueShuffle      = "shuffle"
	uniqueDelete       = "delete"
	uniqueDeleteYes    = "delete_yes"
	uniqueAIPrompt     = "ai_prompt"
)

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/menu", h.handleStart)
	h.bot.Handle("/cancel", h.handleCancel)

	// Text messages and uploads
	h.bot.Handle(tele.OnText, h.handleText)
	h.bot.Handle(tele.OnDocument, h.handleDocument)

	// Callback queries (inline buttons)
	routes := map[string]tele.HandlerFunc{
		uniqueMenu:         h.handleStart,
		uniqueCancel:       h.handleCancel,
		uniqueDecks:        h.handleDecks,
		uniqueDeck:         h.handleDeckSelect,
		uniqueCards:        h.handleCards,
		uniqueCardPrev:     h.handleCardPrev,
		uniqueCardNext:     h.handleCardNext,
		uniqueCardFlip:     h.handleCardFlip,
		uniqueCardMark:     h.handleCardMark,
		uniqueQuiz:         h.handleQuiz,
		uniqueQuizChoice:   h.handleQuizChoice,
		uniqueQuizShow:     h.handleQuizShow,
		uniqueQuizKind:     h.handleQuizKind,
		uniqueSearch:       h.handleSearch,
		uniqueFilter:       h.handleFilter,
		uniqueFilterSet:    h.handleFilterSet,
		uniqueDirection:    h.handleDirection,
		uniqueDirectionSet: h.handleDirectionSet,
		uniqueImport:       h.handleImport,
		uniqueImportAppend: h.handleImportAppend,
		uniqueImportNew:    h.handleImportNew,
		uniqueExport:       h.handleExport,
		uniqueBackup:       h.handleBackup,
		uniqueRestore:      h.handleRestore,
		uniqueStats:        h.handleStats,
		uniqueReset:        h.handleReset,
		uniqueResetYes:     h.handleResetConfirm,
		uniqueShuffle:      h.handleShuffle,
		uniqueDelete:       h.handleDelete,
		uniqueDeleteYes:    h.handleDeleteConfirm,
		uniqueAIPrompt:     h.handleAIPrompt,
	}
	for unique, fn := range routes {
		h.bot.Handle(&tele.Btn{Unique: unique}, fn)
	}

	// Generic callback handler for anything not routed above
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// Session returns the user's study session, creating it on first use
func (h *Handler) Session(userID int64) *service.StudySession {
	h.sessionMux.RLock()
	s, ok := h.sessions[userID]
	h.sessionMux.RUnlock()
	if ok {
		return s
	}

	h.sessionMux.Lock()
	defer h.sessionMux.Unlock()
	if s, ok := h.sessions[userID]; ok {
		return s
	}
	s = h.app.NewSession()
	h.sessions[userID] = s
	return s
}

// reloadSessions refreshes every other user's session after the collection
// changed, so nobody keeps a deleted deck or a stale card order
func (h *Handler) reloadSessions(except int64) {
	h.sessionMux.RLock()
	defer h.sessionMux.RUnlock()
	for userID, s := range h.sessions {
		if userID != except {
			s.Reload()
		}
	}
}

// btn builds a callback button with a translated label
func (h *Handler) btn(markup *tele.ReplyMarkup, key, unique string, data ...string) tele.Btn {
	return markup.Data(h.tr.T(key, ""), unique, data...)
}

// mainMenuMarkup returns the main menu keyboard
func (h *Handler) mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(h.btn(menu, "btn_decks", uniqueDecks), h.btn(menu, "btn_stats", uniqueStats)),
		menu.Row(h.btn(menu, "btn_flashcards", uniqueCards), h.btn(menu, "btn_quiz", uniqueQuiz)),
		menu.Row(h.btn(menu, "btn_search", uniqueSearch), h.btn(menu, "btn_filter", uniqueFilter)),
		menu.Row(h.btn(menu, "btn_direction", uniqueDirection), h.btn(menu, "btn_shuffle", uniqueShuffle)),
		menu.Row(h.btn(menu, "btn_import", uniqueImport), h.btn(menu, "btn_export", uniqueExport)),
		menu.Row(h.btn(menu, "btn_backup", uniqueBackup), h.btn(menu, "btn_restore", uniqueRestore)),
		menu.Row(h.btn(menu, "btn_reset", uniqueReset), h.btn(menu, "btn_delete", uniqueDelete)),
		menu.Row(h.btn(menu, "btn_ai_prompt", uniqueAIPrompt)),
	)
	return menu
}

// backMarkup is a keyboard with a single button back to the menu
func (h *Handler) backMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(h.btn(markup, "btn_menu", uniqueMenu)))
	return markup
}

// cancelMarkup is a keyboard that aborts the current input state
func (h *Handler) cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(h.btn(markup, "btn_cancel", uniqueCancel)))
	return markup
}
