// Package session stores server-side login sessions and issues the signed
// cookie that points at them.
package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Session binds an opaque identifier to a user until ExpiresAt.
type Session struct {
	ID        string    `json:"sid"`
	UserID    int       `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, s *Session) error
	// Get returns ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions that expired at or before now and returns how many.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
