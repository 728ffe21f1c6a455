package server

import (
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
	"github.com/dstrand/go-auth-strategies/users"
)

type seedUser struct {
	username string
	email    string
	password string
	role     users.Role
}

var seedUsers = []seedUser{
	{username: "alice", email: "alice@example.com", password: "password123", role: users.RoleUser},
	{username: "bob", email: "bob@example.com", password: "letmein", role: users.RoleUser},
	{username: "admin", email: "admin@example.com", password: "admin-secret", role: users.RoleAdmin},
}

// InitialiseSystem ensures the demo accounts exist. Accounts already in
// the directory are left alone, so a store pre-populated by tests is not
// overwritten.
func (s *Server) InitialiseSystem() error {
	for _, seed := range seedUsers {
		_, err := s.stores.Users.GetByUsername(seed.username)
		if err == nil {
			continue
		}
		if !apperrors.Is(err, apperrors.ErrUserNotFound) {
			return fmt.Errorf("[InitialiseSystem] looking up %q: %w", seed.username, err)
		}

		hash, err := users.HashPassword(seed.password)
		if err != nil {
			return fmt.Errorf("[InitialiseSystem] hashing password for %q: %w", seed.username, err)
		}
		if err := s.stores.Users.Upsert(&users.User{
			ID:           uuid.NewString(),
			Username:     seed.username,
			Email:        seed.email,
			PasswordHash: hash,
			Role:         seed.role,
		}); err != nil {
			return fmt.Errorf("[InitialiseSystem] creating %q: %w", seed.username, err)
		}
	}
	return nil
}
