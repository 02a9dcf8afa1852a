package domain

import "time"

// Session is the authenticated principal as reported by the auth gateway.
// It exists only while the gateway considers the holder signed in.
type Session struct {
	UserID ProfileID
	Email  string

	// RoleClaim is an optional provider-supplied role ("admin" or empty).
	RoleClaim string

	IssuedAt  time.Time
	ExpiresAt time.Time
}

type AuthEventKind string

const (
	AuthSignedIn    AuthEventKind = "SIGNED_IN"
	AuthSignedOut   AuthEventKind = "SIGNED_OUT"
	AuthUserUpdated AuthEventKind = "USER_UPDATED"
)

// AuthEvent is a raw auth-state transition delivered to the identity
// synchronizer. Session is nil for SIGNED_OUT.
type AuthEvent struct {
	Kind    AuthEventKind
	Session *Session
}
