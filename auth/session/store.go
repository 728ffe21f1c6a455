package session

import (
	"time"

	"github.com/dstrand/go-auth-strategies/auth"
)

// Session is the server-side record a cookie's opaque ID points at.
type Session struct {
	ID        string
	Identity  auth.Identity
	ExpiresAt time.Time
}

type Store interface {
	Put(session Session) error

	// Get returns ErrSessionNotFound when no session has the given ID.
	Get(id string) (*Session, error)

	// Delete removes the session if present. Deleting an unknown ID is
	// not an error.
	Delete(id string) error
}
