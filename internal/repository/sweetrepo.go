package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/manoj-kumar111/sweet-shop/internal/model"
)

// SweetRepository provides inventory persistence with atomic quantity adjustment.
type SweetRepository interface {
	// Create inserts a new sweet.
	Create(ctx context.Context, s *model.Sweet) error
	// GetByID loads a sweet by ID; errs.ErrNotFound if unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sweet, error)
	// List returns the full catalog in a stable order.
	List(ctx context.Context) ([]model.Sweet, error)
	// Search filters the catalog; zero-value filter fields impose no constraint.
	Search(ctx context.Context, f model.SearchFilter) ([]model.Sweet, error)
	// Update applies a partial patch and returns the updated record.
	Update(ctx context.Context, id uuid.UUID, patch model.SweetPatch) (*model.Sweet, error)
	// Delete permanently removes the record; errs.ErrNotFound if unknown.
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementQuantity atomically decrements quantity by one, never below zero.
	// The conditional update is the single point where concurrent purchase
	// correctness is enforced. errs.ErrOutOfStock when quantity is already zero.
	DecrementQuantity(ctx context.Context, id uuid.UUID) error
	// IncrementQuantity atomically adds n (> 0) to quantity.
	IncrementQuantity(ctx context.Context, id uuid.UUID, n int64) error
}
