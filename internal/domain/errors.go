package domain

import "errors"

var (
	// ErrInvalidInput marks problems with the data handed to a run: bad
	// paths, ambiguous directories, unreadable or unparseable tables.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration marks problems with how a run is set up: malformed
	// rulepacks, invalid .fairy.yaml, or no validator for a kind.
	ErrConfiguration = errors.New("configuration error")
)
