package domain

import "errors"

var (
	// ErrInvalidBallotFormat means the ballot does not carry exactly one response.
	ErrInvalidBallotFormat = errors.New("invalid request format")
	// ErrInvalidOption means a response option is neither yes nor no.
	ErrInvalidOption = errors.New("invalid option value")
)
