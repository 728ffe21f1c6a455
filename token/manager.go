// Package token implements the JWT strategy: short-lived self-contained
// access tokens plus longer-lived refresh tokens tracked server-side so
// they can be revoked.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dstrand/go-auth-strategies/auth"
	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
	"github.com/dstrand/go-auth-strategies/users"
)

const signingMethod = "HS256"

// Pair is what a successful JWT login hands back.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Manager struct {
	verifier      *auth.Verifier
	usersRepo     users.Repo
	refreshRepo   RefreshTokenRepo
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	nowFunc       func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc overrides the clock, used in tests to force expiry.
func WithNowFunc(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = nowFunc
	}
}

func WithAccessExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessExpiry = expiry
	}
}

func WithRefreshExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.refreshExpiry = expiry
	}
}

func NewManager(verifier *auth.Verifier, usersRepo users.Repo, refreshRepo RefreshTokenRepo, secret []byte, opts ...ManagerOption) *Manager {
	m := &Manager{
		verifier:      verifier,
		usersRepo:     usersRepo,
		refreshRepo:   refreshRepo,
		secret:        secret,
		accessExpiry:  15 * time.Minute,
		refreshExpiry: 7 * 24 * time.Hour,
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login verifies the credentials and issues an access/refresh token pair.
// The refresh token is recorded so it can be revoked on logout.
func (m *Manager) Login(username, password string) (*Pair, error) {
	user, err := m.verifier.Verify(username, password)
	if err != nil {
		return nil, err
	}

	accessToken, err := m.signAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := m.signRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := m.refreshRepo.Add(refreshToken); err != nil {
		return nil, errors.Wrap(err, "[Login] recording refresh token")
	}
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (m *Manager) signAccessToken(userID, username string, role users.Role) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     string(role),
		"iat":      now.Unix(),
		"exp":      now.Add(m.accessExpiry).Unix(),
		"jti":      uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "[signAccessToken] signing")
	}
	return signed, nil
}

func (m *Manager) signRefreshToken(userID string) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(m.refreshExpiry).Unix(),
		"jti": uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "[signRefreshToken] signing")
	}
	return signed, nil
}

func (m *Manager) parse(tokenString string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithTimeFunc(m.nowFunc),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccessToken validates the signature, signing method and expiry of
// an access token and rebuilds the caller's identity from its claims. An
// expired token is reported as ErrTokenExpired so the HTTP layer can tell
// the client to refresh rather than to log in again.
func (m *Manager) VerifyAccessToken(tokenString string) (auth.Identity, error) {
	if tokenString == "" {
		return auth.Identity{}, apperrors.ErrNoCredentials
	}

	claims, err := m.parse(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Identity{}, apperrors.ErrTokenExpired
		}
		return auth.Identity{}, apperrors.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || username == "" || !users.Role(role).Valid() {
		return auth.Identity{}, apperrors.ErrInvalidToken
	}
	return auth.Identity{
		UserID:   sub,
		Username: username,
		Role:     users.Role(role),
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. The
// server-side set is consulted first: a revoked token is rejected before
// its signature is even looked at. The user is re-resolved from the
// directory so a role change takes effect on the next refresh. The
// refresh token itself is not rotated; it stays valid until logout or
// expiry.
func (m *Manager) Refresh(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.ErrInvalidRefreshToken
	}

	live, err := m.refreshRepo.Contains(refreshToken)
	if err != nil {
		return "", errors.Wrap(err, "[Refresh] checking refresh token")
	}
	if !live {
		return "", apperrors.ErrInvalidRefreshToken
	}

	claims, err := m.parse(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// Expired entries are dead weight in the set.
			if err := m.refreshRepo.Delete(refreshToken); err != nil {
				return "", errors.Wrap(err, "[Refresh] deleting expired refresh token")
			}
		}
		return "", apperrors.ErrInvalidRefreshToken
	}

	sub, _ := claims["sub"].(string)
	user, err := m.usersRepo.GetByID(sub)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	return m.signAccessToken(user.ID, user.Username, user.Role)
}

// Logout revokes the refresh token. Access tokens already issued keep
// working until they expire; only the ability to mint new ones is cut off.
// Revoking an unknown or already-revoked token succeeds quietly.
func (m *Manager) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return m.refreshRepo.Delete(refreshToken)
}
