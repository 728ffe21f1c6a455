// Package session implements cookie-backed server-side sessions. The client
// holds only an opaque session ID; the identity lives in the Store.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dstrand/go-auth-strategies/auth"
	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
)

type Manager struct {
	verifier *auth.Verifier
	store    Store
	lifetime time.Duration
	nowFunc  func() time.Time
	newID    func() string
}

type ManagerOption func(*Manager)

// WithNowFunc overrides the clock, used in tests to force expiry.
func WithNowFunc(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = nowFunc
	}
}

// WithIDFunc overrides session ID generation.
func WithIDFunc(newID func() string) ManagerOption {
	return func(m *Manager) {
		m.newID = newID
	}
}

func NewManager(verifier *auth.Verifier, store Store, lifetime time.Duration, opts ...ManagerOption) *Manager {
	m := &Manager{
		verifier: verifier,
		store:    store,
		lifetime: lifetime,
		nowFunc:  time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login verifies the credentials and mints a brand-new session. If the
// request arrived carrying a session ID it is destroyed first, so an ID
// planted before authentication can never become an authenticated session.
func (m *Manager) Login(presentedID, username, password string) (*Session, error) {
	user, err := m.verifier.Verify(username, password)
	if err != nil {
		return nil, err
	}

	if presentedID != "" {
		if err := m.store.Delete(presentedID); err != nil {
			return nil, errors.Wrap(err, "[Login] destroying presented session")
		}
	}

	session := Session{
		ID:        m.newID(),
		Identity:  auth.IdentityFromUser(user),
		ExpiresAt: m.nowFunc().Add(m.lifetime),
	}
	if err := m.store.Put(session); err != nil {
		return nil, errors.Wrap(err, "[Login] storing session")
	}
	return &session, nil
}

// Resolve maps a session ID back to an identity. Expired sessions are
// deleted on sight and reported the same as missing ones.
func (m *Manager) Resolve(id string) (auth.Identity, error) {
	if id == "" {
		return auth.Identity{}, apperrors.ErrNoCredentials
	}

	session, err := m.store.Get(id)
	if err != nil {
		return auth.Identity{}, err
	}
	if m.nowFunc().After(session.ExpiresAt) {
		if err := m.store.Delete(id); err != nil {
			return auth.Identity{}, errors.Wrap(err, "[Resolve] deleting expired session")
		}
		return auth.Identity{}, apperrors.ErrSessionNotFound
	}
	return session.Identity, nil
}

// Logout destroys the session. Logging out twice is fine.
func (m *Manager) Logout(id string) error {
	if id == "" {
		return nil
	}
	return m.store.Delete(id)
}

// Lifetime is the configured session duration, exposed so the HTTP layer
// can set a matching cookie Max-Age.
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}
