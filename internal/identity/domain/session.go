// Package domain holds the read-only view of an authenticated user.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidToken is returned for a bearer token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Session mirrors the auth provider's access token. Inkwell never issues or
// refreshes sessions itself.
type Session struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type ctxKey int

const sessionKey ctxKey = iota

// WithSession stores the session in a context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the session, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}

// UserIDFromContext returns the session's user id, or nil for anonymous callers.
func UserIDFromContext(ctx context.Context) *uuid.UUID {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return nil
	}
	id := s.UserID
	return &id
}
