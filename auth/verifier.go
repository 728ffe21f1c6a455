package auth

import (
	"github.com/pkg/errors"

	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
	"github.com/dstrand/go-auth-strategies/users"
)

// dummyHash is a real bcrypt hash compared against when the username is
// unknown, so lookups cost the same whether or not the user exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type CompareFunc func(password, hash string) bool

// Verifier checks a username/password pair against the user directory.
// Every strategy's login funnels through here.
type Verifier struct {
	repo    users.Repo
	compare CompareFunc
}

type VerifierOption func(*Verifier)

// WithCompareFunc overrides the password comparison, used in tests to
// observe that a comparison happens even for unknown usernames.
func WithCompareFunc(compare CompareFunc) VerifierOption {
	return func(v *Verifier) {
		v.compare = compare
	}
}

func NewVerifier(repo users.Repo, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		repo:    repo,
		compare: users.CheckPasswordHash,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify returns the user when the credentials match. Unknown usernames and
// wrong passwords both come back as ErrInvalidCredentials, and both paths run
// a bcrypt comparison so the caller cannot time the difference.
func (v *Verifier) Verify(username, password string) (*users.User, error) {
	user, err := v.repo.GetByUsername(username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			v.compare(password, dummyHash)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "[Verify] user lookup")
	}
	if !v.compare(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}
