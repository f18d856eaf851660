package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xanter/salesboard/internal/handler"
)

const (
	getAPIKeyByHashSQL = `SELECT id, key_hash, name FROM api_keys WHERE key_hash = $1 AND active`

	upsertAPIKeySQL = `INSERT INTO api_keys (id, key_hash, name, active) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			key_hash = EXCLUDED.key_hash, name = EXCLUDED.name, active = EXCLUDED.active`
)

var _ handler.APIKeyRepository = (*APIKeyRepository)(nil)

// APIKeyRepository provides API key lookups backed by PostgreSQL.
type APIKeyRepository struct {
	pool *pgxpool.Pool
}

// NewAPIKeyRepository returns an APIKeyRepository that uses the given pool.
func NewAPIKeyRepository(pool *pgxpool.Pool) *APIKeyRepository {
	return &APIKeyRepository{pool: pool}
}

// FindByHash looks up an active API key by its HMAC-SHA256 hash.
func (r *APIKeyRepository) FindByHash(ctx context.Context, hash string) (*handler.APIKeyInfo, error) {
	rows, err := r.pool.Query(ctx, getAPIKeyByHashSQL, hash)
	if err != nil {
		return nil, errors.Wrap(err, "find api key")
	}

	info, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (handler.APIKeyInfo, error) {
		var i handler.APIKeyInfo
		err := row.Scan(&i.ID, &i.KeyHash, &i.Name)
		return i, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrap(err, "api key not found")
		}
		return nil, errors.Wrap(err, "find api key by hash")
	}
	return &info, nil
}

// Upsert inserts or updates an API key record.
func (r *APIKeyRepository) Upsert(ctx context.Context, id, keyHash, name string, active bool) error {
	if _, err := r.pool.Exec(ctx, upsertAPIKeySQL, id, keyHash, name, active); err != nil {
		return errors.Wrapf(err, "upsert api key %q", id)
	}
	return nil
}
