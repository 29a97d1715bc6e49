package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/model"
)

// SweetRepo implements SweetRepository with a mutex-guarded map.
// The mutex plays the role of the database's per-record atomic update:
// DecrementQuantity checks and decrements under one critical section.
type SweetRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Sweet
	order []uuid.UUID // insertion order, for a stable List/Search result
}

// NewSweetRepo constructs an empty in-memory sweet repository.
func NewSweetRepo() *SweetRepo {
	return &SweetRepo{byID: make(map[uuid.UUID]*model.Sweet)}
}

// Create inserts a new sweet.
func (r *SweetRepo) Create(_ context.Context, s *model.Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *s
	now := time.Now()
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = now
	}
	if cpy.UpdatedAt.IsZero() {
		cpy.UpdatedAt = now
	}
	r.byID[cpy.ID] = &cpy
	r.order = append(r.order, cpy.ID)
	return nil
}

// GetByID loads a sweet by ID.
func (r *SweetRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *s
	return &cpy, nil
}

// List returns the full catalog in insertion order.
func (r *SweetRepo) List(ctx context.Context) ([]model.Sweet, error) {
	return r.Search(ctx, model.SearchFilter{})
}

// Search filters by case-insensitive name substring and inclusive max price.
func (r *SweetRepo) Search(_ context.Context, f model.SearchFilter) ([]model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(f.Name)
	out := []model.Sweet{}
	for _, id := range r.order {
		s := r.byID[id]
		if needle != "" && !strings.Contains(strings.ToLower(s.Name), needle) {
			continue
		}
		if f.MaxPrice != nil && s.Price > *f.MaxPrice {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

// Update applies the non-nil patch fields and returns the updated record.
func (r *SweetRepo) Update(_ context.Context, id uuid.UUID, patch model.SweetPatch) (*model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Category != nil {
		s.Category = *patch.Category
	}
	if patch.Price != nil {
		s.Price = *patch.Price
	}
	if patch.Quantity != nil {
		s.Quantity = *patch.Quantity
	}
	if patch.Description != nil {
		s.Description = *patch.Description
	}
	if !patch.Empty() {
		s.UpdatedAt = time.Now()
	}
	cpy := *s
	return &cpy, nil
}

// Delete permanently removes the record.
func (r *SweetRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// DecrementQuantity decrements quantity by one while stock remains.
func (r *SweetRepo) DecrementQuantity(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	if s.Quantity <= 0 {
		return errs.ErrOutOfStock
	}
	s.Quantity--
	s.UpdatedAt = time.Now()
	return nil
}

// IncrementQuantity adds n to quantity.
func (r *SweetRepo) IncrementQuantity(_ context.Context, id uuid.UUID, n int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	s.Quantity += n
	s.UpdatedAt = time.Now()
	return nil
}
