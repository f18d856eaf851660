package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xanter/salesboard/internal/domain/product"
)

const (
	listProductsSQL = `SELECT sku, name, category, purchase_price, sale_price
		FROM products ORDER BY sku`

	getProductBySKUSQL = `SELECT sku, name, category, purchase_price, sale_price
		FROM products WHERE sku = $1`

	upsertProductSQL = `INSERT INTO products (sku, name, category, purchase_price, sale_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			purchase_price = EXCLUDED.purchase_price,
			sale_price = EXCLUDED.sale_price`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products from the catalog ordered by SKU.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetBySKU returns a single product by its SKU.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductBySKUSQL, sku)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", sku)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", sku)
	}
	return &p, nil
}

// Upsert inserts or updates a product.
func (r *ProductRepository) Upsert(ctx context.Context, p product.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.SKU, p.Name, p.Category, p.PurchasePrice, p.SalePrice)
	if err != nil {
		return errors.Wrapf(err, "upsert product %q", p.SKU)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.SKU, &p.Name, &p.Category, &p.PurchasePrice, &p.SalePrice)
	return p, err
}
