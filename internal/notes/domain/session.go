package domain

import "time"

// Session is a server-side cookie session. The cookie carries an opaque random
// token; only its fingerprint is stored.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// ActiveAt reports whether the session can still authenticate at now.
func (s Session) ActiveAt(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
