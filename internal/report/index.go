package report

import (
	"github.com/xanter/salesboard/internal/domain/product"
	"github.com/xanter/salesboard/internal/domain/seller"
)

// newSellerStats seeds one accumulator per input seller, preserving input
// order in the returned slice. The returned map indexes the same values by
// seller ID; duplicates resolve last-write-wins.
func newSellerStats(sellers []seller.Seller) ([]*SellerStats, map[string]*SellerStats) {
	stats := make([]*SellerStats, len(sellers))
	byID := make(map[string]*SellerStats, len(sellers))
	for i, s := range sellers {
		st := &SellerStats{
			SellerID:   s.ID,
			Name:       s.FullName(),
			productQty: make(map[string]int),
		}
		stats[i] = st
		byID[s.ID] = st
	}
	return stats, byID
}

// indexProducts builds the SKU lookup table; duplicates resolve
// last-write-wins.
func indexProducts(products []product.Product) map[string]product.Product {
	bySKU := make(map[string]product.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}
	return bySKU
}
