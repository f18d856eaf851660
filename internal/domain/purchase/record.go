package purchase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a single line item in a purchase record.
// Discount is a percentage in [0, 100] applied to SalePrice * Quantity.
type Item struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// Record represents a single receipt attributed to a seller.
//
// TotalAmount and TotalDiscount are the receipt header totals as exported by
// the point-of-sale system. They are stored for reconciliation but the report
// pipeline derives revenue from the line items only.
type Record struct {
	ReceiptID     string
	SellerID      string
	Items         []Item
	TotalAmount   decimal.Decimal
	TotalDiscount decimal.Decimal
	CreatedAt     time.Time
}

// Repository defines persistence operations for purchase records.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	CreateBatch(ctx context.Context, records []Record) error
}
