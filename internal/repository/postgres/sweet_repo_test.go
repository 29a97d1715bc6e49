package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/model"
)

func sweetRows(sweets ...model.Sweet) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "category", "price", "quantity", "description", "created_at", "updated_at"})
	for _, s := range sweets {
		rows.AddRow(s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description, s.CreatedAt, s.UpdatedAt)
	}
	return rows
}

func testSweet() model.Sweet {
	now := time.Now()
	return model.Sweet{
		ID:        uuid.Must(uuid.NewV4()),
		Name:      "Gummy Bear",
		Category:  "gummy",
		Price:     2.5,
		Quantity:  3,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSweetRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	s := testSweet()
	mock.ExpectExec(`INSERT INTO sweets \(id, name, category, price, quantity, description\)`).
		WithArgs(s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Create(context.Background(), &s))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweetRepo_List_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	s := testSweet()
	mock.ExpectQuery(`SELECT .+ FROM sweets ORDER BY created_at, id`).
		WillReturnRows(sweetRows(s))

	got, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, s.Name, got[0].Name)
}

func TestSweetRepo_List_Empty(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM sweets ORDER BY created_at, id`).
		WillReturnRows(sweetRows())

	got, err := r.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestSweetRepo_Search_BothFilters(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	s := testSweet()
	max := 5.0
	mock.ExpectQuery(`SELECT .+ FROM sweets WHERE name ILIKE \$1 AND price <= \$2 ORDER BY created_at, id`).
		WithArgs("%gum%", max).
		WillReturnRows(sweetRows(s))

	got, err := r.Search(context.Background(), model.SearchFilter{Name: "gum", MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestSweetRepo_Search_EscapesLikeMeta(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM sweets WHERE name ILIKE \$1 ORDER BY created_at, id`).
		WithArgs(`%100\% cocoa%`).
		WillReturnRows(sweetRows())

	_, err := r.Search(context.Background(), model.SearchFilter{Name: "100% cocoa"})
	require.NoError(t, err)
}

func TestSweetRepo_Update_PartialPatch(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	s := testSweet()
	price := 3.5
	mock.ExpectQuery(`UPDATE sweets SET updated_at=now\(\), price=\$2 WHERE id=\$1 RETURNING`).
		WithArgs(s.ID, price).
		WillReturnRows(sweetRows(s))

	got, err := r.Update(context.Background(), s.ID, model.SweetPatch{Price: &price})
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
}

func TestSweetRepo_Update_EmptyPatchReadsBack(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	s := testSweet()
	mock.ExpectQuery(`SELECT .+ FROM sweets WHERE id=\$1`).
		WithArgs(s.ID).
		WillReturnRows(sweetRows(s))

	got, err := r.Update(context.Background(), s.ID, model.SweetPatch{})
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
}

func TestSweetRepo_Update_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	id := uuid.Must(uuid.NewV4())
	name := "Caramel Cube"
	mock.ExpectQuery(`UPDATE sweets SET updated_at=now\(\), name=\$2 WHERE id=\$1 RETURNING`).
		WithArgs(id, name).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.Update(context.Background(), id, model.SweetPatch{Name: &name})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSweetRepo_Delete_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectExec(`DELETE FROM sweets WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, r.Delete(context.Background(), id))
}

func TestSweetRepo_Delete_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectExec(`DELETE FROM sweets WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.ErrorIs(t, r.Delete(context.Background(), id), errs.ErrNotFound)
}

func TestSweetRepo_DecrementQuantity_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectExec(`UPDATE sweets\s+SET quantity = quantity - 1, updated_at = now\(\)\s+WHERE id = \$1 AND quantity > 0`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.DecrementQuantity(context.Background(), id))
}

func TestSweetRepo_DecrementQuantity_OutOfStock(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	s := testSweet()
	s.Quantity = 0
	mock.ExpectExec(`UPDATE sweets\s+SET quantity = quantity - 1`).
		WithArgs(s.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT .+ FROM sweets WHERE id=\$1`).
		WithArgs(s.ID).
		WillReturnRows(sweetRows(s))

	require.ErrorIs(t, r.DecrementQuantity(context.Background(), s.ID), errs.ErrOutOfStock)
}

func TestSweetRepo_DecrementQuantity_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectExec(`UPDATE sweets\s+SET quantity = quantity - 1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT .+ FROM sweets WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	require.ErrorIs(t, r.DecrementQuantity(context.Background(), id), errs.ErrNotFound)
}

func TestSweetRepo_IncrementQuantity_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectExec(`UPDATE sweets\s+SET quantity = quantity \+ \$2, updated_at = now\(\)\s+WHERE id = \$1`).
		WithArgs(id, int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.IncrementQuantity(context.Background(), id, 5))
}

func TestSweetRepo_IncrementQuantity_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSweetRepo(db)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectExec(`UPDATE sweets\s+SET quantity = quantity \+ \$2`).
		WithArgs(id, int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.ErrorIs(t, r.IncrementQuantity(context.Background(), id, 1), errs.ErrNotFound)
}
