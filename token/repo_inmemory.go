package token

import "sync"

type InMemoryRefreshTokenRepo struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

var _ RefreshTokenRepo = (*InMemoryRefreshTokenRepo)(nil)

func NewInMemoryRefreshTokenRepo() *InMemoryRefreshTokenRepo {
	return &InMemoryRefreshTokenRepo{
		tokens: make(map[string]struct{}),
	}
}

func (r *InMemoryRefreshTokenRepo) Add(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = struct{}{}
	return nil
}

func (r *InMemoryRefreshTokenRepo) Contains(token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tokens[token]
	return ok, nil
}

func (r *InMemoryRefreshTokenRepo) Delete(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}
