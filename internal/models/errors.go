package models

import "errors"

// Domain error taxonomy. Handlers map these onto HTTP status codes; nothing
// below the handler layer knows about HTTP.
var (
	ErrInvalidID         = errors.New("invalid identifier")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrProfileIncomplete = errors.New("profile incomplete")
	ErrDuplicateUser     = errors.New("user already exists")
)
