package services

import "errors"

// Domain errors surfaced by the engine. Handlers match these with
// errors.Is and map them to HTTP statuses; everything else is treated
// as an internal error.
var (
	// ErrUserNotFound: the referenced principal does not exist. Fatal to
	// the calling operation, never retried.
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden: the user's stored org differs from the org in the
	// caller's authenticated context. Always fatal; logged as a
	// security-relevant event by the guard.
	ErrForbidden = errors.New("user does not belong to this organization")

	// ErrQuotaExceeded: the daily message allowance for the user's tier is
	// exhausted. Distinguishable so the UI can show an upgrade prompt
	// instead of a generic error.
	ErrQuotaExceeded = errors.New("daily message limit reached")
)
