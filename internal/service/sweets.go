package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/model"
	"github.com/manoj-kumar111/sweet-shop/internal/repository"
)

// CreateSweet is the input for adding a new catalog entry.
type CreateSweet struct {
	Name        string
	Category    string
	Price       float64
	Quantity    int64
	Description string
}

// SweetService defines role-gated inventory operations.
type SweetService interface {
	// Create adds a sweet to the catalog; ADMIN only.
	Create(ctx context.Context, in CreateSweet, actor model.Role) (*model.Sweet, error)
	// List returns the full catalog.
	List(ctx context.Context) ([]model.Sweet, error)
	// Search filters the catalog by name substring and max price.
	Search(ctx context.Context, f model.SearchFilter) ([]model.Sweet, error)
	// Update applies a partial patch, re-validating touched fields; ADMIN only.
	Update(ctx context.Context, id uuid.UUID, patch model.SweetPatch, actor model.Role) (*model.Sweet, error)
	// Delete permanently removes a sweet; ADMIN only.
	Delete(ctx context.Context, id uuid.UUID, actor model.Role) error
	// Purchase decrements quantity by one; any authenticated user.
	Purchase(ctx context.Context, id uuid.UUID) error
	// Restock adds n (> 0) units; ADMIN only.
	Restock(ctx context.Context, id uuid.UUID, n int64, actor model.Role) error
}

type SweetServiceImpl struct {
	repo repository.SweetRepository
}

// NewSweetService constructs SweetService.
func NewSweetService(repo repository.SweetRepository) *SweetServiceImpl {
	return &SweetServiceImpl{repo: repo}
}

// Create validates input and inserts a new sweet.
func (s *SweetServiceImpl) Create(ctx context.Context, in CreateSweet, actor model.Role) (*model.Sweet, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", errs.ErrInvalid)
	}
	if in.Category == "" {
		return nil, fmt.Errorf("%w: category must not be empty", errs.ErrInvalid)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", errs.ErrInvalid)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", errs.ErrInvalid)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	sweet := &model.Sweet{
		ID:          id,
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
	}
	if err := s.repo.Create(ctx, sweet); err != nil {
		return nil, err
	}
	return sweet, nil
}

// List returns the full catalog.
func (s *SweetServiceImpl) List(ctx context.Context) ([]model.Sweet, error) {
	return s.repo.List(ctx)
}

// Search filters the catalog. An empty filter equals List.
func (s *SweetServiceImpl) Search(ctx context.Context, f model.SearchFilter) ([]model.Sweet, error) {
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return nil, fmt.Errorf("%w: maxPrice must not be negative", errs.ErrInvalid)
	}
	return s.repo.Search(ctx, f)
}

// Update re-validates every touched field before applying the patch.
func (s *SweetServiceImpl) Update(ctx context.Context, id uuid.UUID, patch model.SweetPatch, actor model.Role) (*model.Sweet, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name must not be empty", errs.ErrInvalid)
		}
		patch.Name = &trimmed
	}
	if patch.Category != nil {
		trimmed := strings.TrimSpace(*patch.Category)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: category must not be empty", errs.ErrInvalid)
		}
		patch.Category = &trimmed
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", errs.ErrInvalid)
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", errs.ErrInvalid)
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete permanently removes the record.
func (s *SweetServiceImpl) Delete(ctx context.Context, id uuid.UUID, actor model.Role) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Purchase decrements quantity by exactly one. Correctness under concurrent
// purchases rests on the repository's conditional update, not on this layer.
func (s *SweetServiceImpl) Purchase(ctx context.Context, id uuid.UUID) error {
	return s.repo.DecrementQuantity(ctx, id)
}

// Restock adds n units to the stock.
func (s *SweetServiceImpl) Restock(ctx context.Context, id uuid.UUID, n int64, actor model.Role) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("%w: restock quantity must be positive", errs.ErrInvalid)
	}
	return s.repo.IncrementQuantity(ctx, id, n)
}

// requireAdmin gates mutations. The role check runs before any payload
// validation so non-admin callers always see forbidden.
func requireAdmin(actor model.Role) error {
	switch actor {
	case model.RoleAdmin:
		return nil
	case model.RoleUser:
		return fmt.Errorf("%w: admin role required", errs.ErrForbidden)
	default:
		return fmt.Errorf("%w: unknown role", errs.ErrForbidden)
	}
}
