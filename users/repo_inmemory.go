package users

import (
	"slices"
	"sync"

	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
type InMemoryRepo struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by user ID
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		users: make(map[string]*User),
	}
}

func (r *InMemoryRepo) Upsert(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	stored.Tokens = slices.Clone(user.Tokens)
	r.users[user.ID] = &stored
	return nil
}

func (r *InMemoryRepo) GetByUsername(username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *InMemoryRepo) GetByID(id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *InMemoryRepo) AddToken(id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Tokens = append(user.Tokens, token)
	return nil
}

func (r *InMemoryRepo) RemoveToken(id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Tokens = slices.DeleteFunc(user.Tokens, func(t string) bool {
		return t == token
	})
	return nil
}

func (r *InMemoryRepo) FindByToken(token string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if slices.Contains(user.Tokens, token) {
			return copyUser(user), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func copyUser(user *User) *User {
	c := *user
	c.Tokens = slices.Clone(user.Tokens)
	return &c
}
