package auth

import (
	"context"
	"sync"
)

// UserRepository defines the interface for credential storage. Lookups are
// case-sensitive exact matches; the demo seed relies on that.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	FindByID(ctx context.Context, id string) (*Credential, error)
	Insert(ctx context.Context, cred *Credential) error
	List(ctx context.Context) ([]*Credential, error)
}

// InMemoryUserRepository is an in-memory implementation of UserRepository.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users []*Credential
}

// NewInMemoryUserRepository creates an empty in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{}
}

// FindByEmail returns the credential whose email exactly matches.
func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrUserNotFound
}

// FindByID returns the credential with the given id.
func (r *InMemoryUserRepository) FindByID(ctx context.Context, id string) (*Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrUserNotFound
}

// Insert appends a new credential.
func (r *InMemoryUserRepository) Insert(ctx context.Context, cred *Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *cred
	r.users = append(r.users, &c)
	return nil
}

// List returns a copy of all credentials.
func (r *InMemoryUserRepository) List(ctx context.Context) ([]*Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Credential, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}
