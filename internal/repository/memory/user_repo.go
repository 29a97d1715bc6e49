// Package memory contains in-memory implementations of repository interfaces.
// They back the dev/test fallback when PostgreSQL is unreachable; contents are
// lost on shutdown.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/model"
)

// UserRepo implements UserRepository with a mutex-guarded map.
type UserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*model.User
	byEmail map[string]uuid.UUID
}

// NewUserRepo constructs an empty in-memory user repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Create inserts a new user; duplicate emails are rejected.
func (r *UserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = time.Now()
	}
	r.byID[cpy.ID] = &cpy
	r.byEmail[cpy.Email] = cpy.ID
	return nil
}

// GetByID loads a user by ID.
func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *u
	return &cpy, nil
}

// GetByEmail loads a user by email (callers pass it lowercased).
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *r.byID[id]
	return &cpy, nil
}
