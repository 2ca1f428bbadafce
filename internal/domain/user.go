package domain

import "time"

// User represents a bot user
type User struct {
	UserID     int64
	Authorized bool
	CreatedAt  time.Time
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle             UserState = "idle"
	StateWaitingQuery     UserState = "waiting_query"
	StateWaitingAnswer    UserState = "waiting_answer"
	StateWaitingImport    UserState = "waiting_import"
	StateWaitingImportTo  UserState = "waiting_import_target"
	StateWaitingDeckTitle UserState = "waiting_deck_title"
	StateWaitingRestore   UserState = "waiting_restore"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State UserState
	// Payload is the import JSON kept until the target is chosen
	Payload string
	// Items are spreadsheet rows kept until the target is chosen
	Items []Item
}
