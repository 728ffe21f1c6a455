// Package basicauth implements HTTP Basic authentication. Credentials ride on
// every request, so there is nothing to store and nothing to log out of.
package basicauth

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/dstrand/go-auth-strategies/auth"
	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
)

const scheme = "Basic "

type Authenticator struct {
	verifier *auth.Verifier
	realm    string
}

func New(verifier *auth.Verifier, realm string) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		realm:    realm,
	}
}

// Challenge is the WWW-Authenticate value sent with a 401 when no
// credentials were presented.
func (a *Authenticator) Challenge() string {
	return `Basic realm="` + a.realm + `"`
}

// Authenticate verifies the Authorization header on the request.
// A missing header or a non-Basic scheme returns ErrNoCredentials; a
// header that is present but undecodable or wrong returns
// ErrInvalidCredentials.
func (a *Authenticator) Authenticate(r *http.Request) (auth.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, scheme) {
		return auth.Identity{}, apperrors.ErrNoCredentials
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(scheme):])
	if err != nil {
		return auth.Identity{}, apperrors.ErrInvalidCredentials
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return auth.Identity{}, apperrors.ErrInvalidCredentials
	}

	user, err := a.verifier.Verify(username, password)
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.IdentityFromUser(user), nil
}
