package session

import "time"

// KeyToken is the store key the session token of the current login lives under.
// At most one token is remembered at a time; a new login overwrites it.
const KeyToken = "token"

// Session represents the local view of a portal session.
// ExpiresAt is a client-side estimate (validation time + one day) because the
// backend does not return an expiry claim alongside the token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}
