package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/model"
)

// SweetRepo implements SweetRepository using PostgreSQL.
type SweetRepo struct{ db *DB }

// NewSweetRepo constructs a sweet repository.
func NewSweetRepo(db *DB) *SweetRepo { return &SweetRepo{db: db} }

const sweetColumns = `id, name, category, price, quantity, description, created_at, updated_at`

// Create inserts a new sweet row.
func (r *SweetRepo) Create(ctx context.Context, s *model.Sweet) error {
	const q = `
INSERT INTO sweets (id, name, category, price, quantity, description)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description)
	return err
}

// GetByID selects a sweet by ID.
func (r *SweetRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Sweet, error) {
	const q = `SELECT ` + sweetColumns + ` FROM sweets WHERE id=$1`
	return scanSweet(r.db.Pool.QueryRow(ctx, q, id))
}

// List returns the full catalog ordered by creation time for a stable result.
func (r *SweetRepo) List(ctx context.Context) ([]model.Sweet, error) {
	const q = `SELECT ` + sweetColumns + ` FROM sweets ORDER BY created_at, id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectSweets(rows)
}

// Search filters by case-insensitive name substring and inclusive max price.
// Both conditions are ANDed when present; an empty filter equals List.
func (r *SweetRepo) Search(ctx context.Context, f model.SearchFilter) ([]model.Sweet, error) {
	q := `SELECT ` + sweetColumns + ` FROM sweets`
	var (
		conds []string
		args  []any
	)
	if f.Name != "" {
		args = append(args, likePattern(f.Name))
		conds = append(conds, fmt.Sprintf(`name ILIKE $%d`, len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		conds = append(conds, fmt.Sprintf(`price <= $%d`, len(args)))
	}
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	q += ` ORDER BY created_at, id`

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectSweets(rows)
}

// Update applies the non-nil patch fields and returns the updated record.
func (r *SweetRepo) Update(ctx context.Context, id uuid.UUID, patch model.SweetPatch) (*model.Sweet, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	sets := []string{`updated_at=now()`}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(`%s=$%d`, col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}

	q := `UPDATE sweets SET ` + strings.Join(sets, `, `) + ` WHERE id=$1 RETURNING ` + sweetColumns
	return scanSweet(r.db.Pool.QueryRow(ctx, q, args...))
}

// Delete permanently removes the record.
func (r *SweetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM sweets WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DecrementQuantity decrements quantity by one only while stock remains.
// The conditional update serializes concurrent purchases per record: with
// quantity 1 and two simultaneous calls, exactly one row update succeeds.
func (r *SweetRepo) DecrementQuantity(ctx context.Context, id uuid.UUID) error {
	const q = `
UPDATE sweets
SET quantity = quantity - 1, updated_at = now()
WHERE id = $1 AND quantity > 0`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	// Zero rows: either the sweet is unknown or the stock is exhausted.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return errs.ErrOutOfStock
}

// IncrementQuantity adds n to quantity in a single statement.
func (r *SweetRepo) IncrementQuantity(ctx context.Context, id uuid.UUID, n int64) error {
	const q = `
UPDATE sweets
SET quantity = quantity + $2, updated_at = now()
WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id, n)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// likePattern escapes LIKE metacharacters so user input matches literally.
func likePattern(s string) string {
	repl := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + repl.Replace(s) + "%"
}

func scanSweet(row pgx.Row) (*model.Sweet, error) {
	var s model.Sweet
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func collectSweets(rows pgx.Rows) ([]model.Sweet, error) {
	defer rows.Close()
	out := []model.Sweet{}
	for rows.Next() {
		var s model.Sweet
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
