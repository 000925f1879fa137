package domain

import "errors"

// error kinds, match with errors.Is
var (
	ErrValidation    = errors.New("validation error")
	ErrForbidden     = errors.New("forbidden")
	ErrSessionClosed = errors.New("session closed")
	ErrNotFound      = errors.New("not found")
)
