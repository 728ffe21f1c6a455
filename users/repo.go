package users

// Repo is the user directory. Opaque bearer tokens live on the user record,
// so token issuance and removal are directory operations.
type Repo interface {
	Upsert(user *User) error
	GetByUsername(username string) (*User, error)
	GetByID(id string) (*User, error)

	// AddToken appends a token to the user's token set. Existing tokens are
	// kept: each login/device holds its own token.
	AddToken(id, token string) error

	// RemoveToken removes exactly the given token from the user's token set.
	// Removing a token that is not present is not an error.
	RemoveToken(id, token string) error

	// FindByToken resolves a token to its owner. Tokens are opaque, so the
	// only way to resolve one is to scan every user's token set.
	FindByToken(token string) (*User, error)
}
