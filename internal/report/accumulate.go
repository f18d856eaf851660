package report

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xanter/salesboard/internal/domain/product"
	"github.com/xanter/salesboard/internal/domain/purchase"
)

// accumulate folds the purchase records into the per-seller accumulators.
//
// A record whose seller is not in the index is skipped whole; a line item
// whose product is not in the index is skipped alone, siblings still count.
// Sales count increments once per record, not per item. Running totals stay
// unrounded; rounding happens only when the report is built.
func accumulate(
	records []purchase.Record,
	sellers map[string]*SellerStats,
	products map[string]product.Product,
	revenue RevenueFunc,
) error {
	for _, rec := range records {
		st, ok := sellers[rec.SellerID]
		if !ok {
			continue
		}
		st.SalesCount++

		for _, item := range rec.Items {
			p, ok := products[item.SKU]
			if !ok {
				continue
			}

			itemRevenue, err := revenue(item, p)
			if err != nil {
				return errors.Wrapf(err, "revenue for sku %s in receipt %s", item.SKU, rec.ReceiptID)
			}
			itemCost := p.PurchasePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

			st.Revenue = st.Revenue.Add(itemRevenue)
			st.Profit = st.Profit.Add(itemRevenue.Sub(itemCost))
			st.addQuantity(item.SKU, item.Quantity)
		}
	}
	return nil
}
