package domain

import "errors"

// Error taxonomy for the lookup flow. Callers match with errors.Is; every
// error produced below the UI wraps exactly one of these sentinels.
var (
	// ErrNotFound means the upstream API does not recognize the country name.
	ErrNotFound = errors.New("country not found")

	// ErrUnavailable means the upstream API or the cache store could not be
	// reached, or answered with an unexpected status.
	ErrUnavailable = errors.New("service unavailable")

	// ErrDecode means the upstream response did not match the expected shape.
	ErrDecode = errors.New("malformed response")

	// ErrInvalidName means the requested name was empty after normalization.
	ErrInvalidName = errors.New("invalid country name")
)
