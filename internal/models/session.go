package models

import (
	"errors"
	"time"
)

// Roles a session can carry. The core does not issue sessions; it receives
// one already validated and only checks it is present, unexpired and of the
// expected role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrSessionInvalid is forwarded unmodified to the caller's redirect logic.
var ErrSessionInvalid = errors.New("session invalid")

// Session is the explicit caller identity passed into every core operation.
type Session struct {
	Role      string
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the session carries a credential and has not expired.
// A zero ExpiresAt means the issuer set no expiry.
func (s Session) Valid() bool {
	if s.Token == "" || s.Role == "" {
		return false
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return false
	}
	return true
}

// Require returns ErrSessionInvalid unless the session is valid and has the
// given role.
func (s Session) Require(role string) error {
	if !s.Valid() || s.Role != role {
		return ErrSessionInvalid
	}
	return nil
}
