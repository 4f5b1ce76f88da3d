package attic

import "errors"

var (
	// ErrNotFound is returned when a path resolves to no filesystem entry
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a path escapes the configured root
	ErrForbidden = errors.New("forbidden path")
	// ErrUnauthorized is returned when listing credentials are missing or wrong
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)
