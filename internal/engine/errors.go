package engine

import "errors"

var (
	// ErrValidation indicates an invalid request, caught before any
	// transport activity.
	ErrValidation = errors.New("validation failed")
)
