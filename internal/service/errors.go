package service

import "errors"

var (
	// ErrMalformedInput is wrapped around the JSON parser error of an import payload
	ErrMalformedInput = errors.New("vocab: malformed input")
	// ErrEmptyImport means the payload contained no usable items
	ErrEmptyImport = errors.New("vocab: no usable items in import")
	// ErrMissingTarget means append was requested with no deck, or a new deck with no title
	ErrMissingTarget = errors.New("vocab: missing import target")
	ErrDeckNotFound  = errors.New("vocab: deck not found")
	// ErrNoItems means a question was requested from an empty pool
	ErrNoItems          = errors.New("vocab: no items to quiz")
	ErrAlreadyAnswered  = errors.New("vocab: question already answered")
	ErrEmptyAnswer      = errors.New("vocab: empty answer")
	ErrInvalidStatus    = errors.New("vocab: invalid status")
	ErrNoDeckSelected   = errors.New("vocab: no deck selected")
	ErrNoActiveItem     = errors.New("vocab: no active item")
	ErrNoActiveQuestion = errors.New("vocab: no active question")
)
