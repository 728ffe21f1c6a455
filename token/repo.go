package token

// RefreshTokenRepo tracks which refresh tokens are currently honoured.
// A signed token that is absent from the repo is dead, which is what
// makes logout mean something for stateless JWTs.
type RefreshTokenRepo interface {
	Add(token string) error
	Contains(token string) (bool, error)

	// Delete removes the token if present. Deleting an unknown token is
	// not an error.
	Delete(token string) error
}
