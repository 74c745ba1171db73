// Package apperr holds the sentinel errors shared by repositories, services and handlers.
package apperr

import "errors"

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is returned when an identifier cannot be parsed as a store id.
	ErrInvalidID = errors.New("invalid id")
	// ErrAlreadyExists is returned when a natural key is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidToken covers malformed, expired and badly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden is returned when the principal may not act on a resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput marks payloads rejected by domain validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable marks a dependency that is disabled or failing fast.
	ErrUnavailable = errors.New("service unavailable")
)
