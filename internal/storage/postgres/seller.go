package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xanter/salesboard/internal/domain/seller"
)

const (
	listSellersSQL = `SELECT id, first_name, last_name FROM sellers ORDER BY created_at, id`

	getSellerByIDSQL = `SELECT id, first_name, last_name FROM sellers WHERE id = $1`

	upsertSellerSQL = `INSERT INTO sellers (id, first_name, last_name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name`
)

var _ seller.Repository = (*SellerRepository)(nil)

// SellerRepository implements seller.Repository backed by PostgreSQL.
// List order follows insertion order, which the report pipeline uses as the
// tie-break for equal-profit sellers.
type SellerRepository struct {
	pool *pgxpool.Pool
}

// NewSellerRepository returns a SellerRepository that uses the given pool.
func NewSellerRepository(pool *pgxpool.Pool) *SellerRepository {
	return &SellerRepository{pool: pool}
}

// List returns all sellers in insertion order.
func (r *SellerRepository) List(ctx context.Context) ([]seller.Seller, error) {
	rows, err := r.pool.Query(ctx, listSellersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list sellers")
	}
	return pgx.CollectRows(rows, scanSeller)
}

// GetByID returns a single seller by its identifier.
func (r *SellerRepository) GetByID(ctx context.Context, id string) (*seller.Seller, error) {
	rows, err := r.pool.Query(ctx, getSellerByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get seller %q", id)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSeller)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, seller.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get seller %q", id)
	}
	return &s, nil
}

// Upsert inserts or updates a seller.
func (r *SellerRepository) Upsert(ctx context.Context, s seller.Seller) error {
	if _, err := r.pool.Exec(ctx, upsertSellerSQL, s.ID, s.FirstName, s.LastName); err != nil {
		return errors.Wrapf(err, "upsert seller %q", s.ID)
	}
	return nil
}

func scanSeller(row pgx.CollectableRow) (seller.Seller, error) {
	var s seller.Seller
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName)
	return s, err
}
