package report

import "sort"

// maxTopProducts bounds the top-products list per seller.
const maxTopProducts = 10

// topProducts reduces a seller's per-SKU quantities to an ordered list,
// descending by quantity and truncated to maxTopProducts entries. Ties keep
// first-seen SKU order (stable sort over the insertion-ordered slice).
func topProducts(s *SellerStats) []ProductQuantity {
	out := make([]ProductQuantity, 0, len(s.skuOrder))
	for _, sku := range s.skuOrder {
		out = append(out, ProductQuantity{SKU: sku, Quantity: s.productQty[sku]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})

	if len(out) > maxTopProducts {
		out = out[:maxTopProducts]
	}
	return out
}
