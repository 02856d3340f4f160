package models

import "errors"

var (
	// ErrInvalidInput marks malformed dates, months out of range and
	// missing query parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataUnavailable marks a missing or empty source series, or a model
	// that could be neither loaded nor trained.
	ErrDataUnavailable = errors.New("data unavailable")
)
