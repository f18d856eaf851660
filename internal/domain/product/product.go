package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item. PurchasePrice is the cost basis used for
// profit calculation; SalePrice is the list price for revenue strategies that
// do not take the price from the line item itself.
type Product struct {
	SKU           string
	Name          string
	Category      string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
}
