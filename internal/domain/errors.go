package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when the question backing store
	// cannot be read or queried.
	ErrSourceUnavailable = errors.New("question source unavailable")
	// ErrMalformedRecord is returned when a loaded question violates the
	// schema (missing answer or meaning, fewer than 2 choices).
	ErrMalformedRecord = errors.New("malformed question record")
	// ErrQuestionNotFound indicates an unknown question ID was submitted.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSessionNotFound is returned when a game session has not been initialized.
	ErrSessionNotFound = errors.New("game session not found")
)
