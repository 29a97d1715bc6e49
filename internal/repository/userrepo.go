// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/manoj-kumar111/sweet-shop/internal/model"
)

// UserRepository provides account persistence with case-insensitive email uniqueness.
type UserRepository interface {
	// Create inserts a new user; errs.ErrAlreadyExists on a duplicate email.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email (lowercased by the caller).
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
