// Package opaquetoken implements bearer tokens with no structure: a token is
// 32 random bytes, and its meaning lives entirely in the user directory.
package opaquetoken

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/dstrand/go-auth-strategies/auth"
	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
	"github.com/dstrand/go-auth-strategies/users"
)

type Manager struct {
	verifier *auth.Verifier
	repo     users.Repo
	newToken func() (string, error)
}

type ManagerOption func(*Manager)

// WithTokenFunc overrides token generation, used in tests for
// deterministic tokens.
func WithTokenFunc(newToken func() (string, error)) ManagerOption {
	return func(m *Manager) {
		m.newToken = newToken
	}
}

func NewManager(verifier *auth.Verifier, repo users.Repo, opts ...ManagerOption) *Manager {
	m := &Manager{
		verifier: verifier,
		repo:     repo,
		newToken: generateToken,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "[generateToken] reading random bytes")
	}
	return hex.EncodeToString(bytes), nil
}

// Login verifies the credentials and issues a fresh token. Tokens already
// held by the user stay valid: each login is its own device.
func (m *Manager) Login(username, password string) (string, error) {
	user, err := m.verifier.Verify(username, password)
	if err != nil {
		return "", err
	}

	token, err := m.newToken()
	if err != nil {
		return "", err
	}
	if err := m.repo.AddToken(user.ID, token); err != nil {
		return "", errors.Wrap(err, "[Login] storing token")
	}
	return token, nil
}

// Resolve scans the directory for the token's owner. The scan is linear in
// the number of users; an index keyed by token would trade that away.
func (m *Manager) Resolve(token string) (auth.Identity, error) {
	if token == "" {
		return auth.Identity{}, apperrors.ErrNoCredentials
	}
	user, err := m.repo.FindByToken(token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return auth.Identity{}, apperrors.ErrInvalidToken
		}
		return auth.Identity{}, errors.Wrap(err, "[Resolve] token lookup")
	}
	return auth.IdentityFromUser(user), nil
}

// Logout revokes exactly the presented token. Other tokens the same user
// holds are untouched, and revoking an unknown token succeeds quietly.
func (m *Manager) Logout(token string) error {
	if token == "" {
		return nil
	}
	user, err := m.repo.FindByToken(token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return errors.Wrap(err, "[Logout] token lookup")
	}
	return m.repo.RemoveToken(user.ID, token)
}
