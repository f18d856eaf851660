package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xanter/salesboard/internal/domain/purchase"
)

const (
	listRecordsSQL = `SELECT receipt_id, seller_id, items, total_amount, total_discount, created_at
		FROM purchase_records ORDER BY created_at, receipt_id`

	upsertRecordSQL = `INSERT INTO purchase_records
			(receipt_id, seller_id, items, total_amount, total_discount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (receipt_id) DO NOTHING`
)

var _ purchase.Repository = (*RecordRepository)(nil)

// RecordRepository implements purchase.Repository backed by PostgreSQL.
// Line items are stored as JSONB; receipts are idempotent on receipt_id.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository returns a RecordRepository that uses the given pool.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// List returns all purchase records in insertion order.
func (r *RecordRepository) List(ctx context.Context) ([]purchase.Record, error) {
	rows, err := r.pool.Query(ctx, listRecordsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list purchase records")
	}
	return pgx.CollectRows(rows, scanRecord)
}

// CreateBatch inserts the given records in one transaction, skipping receipts
// that already exist.
func (r *RecordRepository) CreateBatch(ctx context.Context, records []purchase.Record) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rec := range records {
		itemsJSON, err := json.Marshal(rec.Items)
		if err != nil {
			return errors.Wrapf(err, "marshal items of receipt %q", rec.ReceiptID)
		}
		_, err = tx.Exec(ctx, upsertRecordSQL,
			rec.ReceiptID, rec.SellerID, itemsJSON, rec.TotalAmount, rec.TotalDiscount)
		if err != nil {
			return errors.Wrapf(err, "insert receipt %q", rec.ReceiptID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func scanRecord(row pgx.CollectableRow) (purchase.Record, error) {
	var (
		rec       purchase.Record
		itemsJSON []byte
	)
	err := row.Scan(&rec.ReceiptID, &rec.SellerID, &itemsJSON,
		&rec.TotalAmount, &rec.TotalDiscount, &rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(itemsJSON, &rec.Items); err != nil {
		return rec, errors.Wrapf(err, "unmarshal items of receipt %q", rec.ReceiptID)
	}
	return rec, nil
}
