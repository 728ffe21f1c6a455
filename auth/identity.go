package auth

import "github.com/dstrand/go-auth-strategies/users"

// Identity is the authenticated caller as established by any strategy.
// Handlers downstream only ever see this, never the raw credential.
type Identity struct {
	UserID   string     `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email,omitempty"`
	Role     users.Role `json:"role"`
}

func IdentityFromUser(user *users.User) Identity {
	return Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}
