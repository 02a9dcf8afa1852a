package domain

import "errors"

// Failure taxonomy. Surfaced errors (ErrUnauthenticated,
// ErrGraphWriteConflict) abort the operation and reach the caller;
// best-effort failures (secondary writes, channel publishes, AI
// enrichment) are logged and swallowed by the owning service.
var (
	// ErrUnauthenticated: the action requires a signed-in principal.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrGraphWriteConflict: the primary side of a two-sided mutation
	// failed; the secondary write never ran.
	ErrGraphWriteConflict = errors.New("graph write conflict")

	// ErrSecondaryWriteFailure: the best-effort side of a two-sided
	// mutation failed after the primary succeeded. Logged, never surfaced.
	ErrSecondaryWriteFailure = errors.New("secondary write failure")

	// ErrLookupFailure: a read failed; callers treat the row as absent.
	ErrLookupFailure = errors.New("lookup failure")

	// ErrNotFound: the row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists: create collided with an existing row.
	ErrAlreadyExists = errors.New("already exists")

	// ErrForbidden: the principal is signed in but not allowed to act on
	// this row (not the owner, not an admin).
	ErrForbidden = errors.New("forbidden")

	// ErrChannelClosed: send/append attempted on a channel view that is
	// not open.
	ErrChannelClosed = errors.New("channel closed")

	// ErrUpstreamDegraded: the AI endpoint failed; callers substitute the
	// static fallback content.
	ErrUpstreamDegraded = errors.New("upstream service degraded")
)
