// Package report implements the seller performance pipeline: it folds purchase
// records into per-seller totals, ranks sellers by profit, assigns rank-based
// bonuses, and produces the final report ordered by rank.
//
// Revenue and bonus formulas are injected by the caller (Options); the package
// ships canonical implementations in strategy.go.
package report

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xanter/salesboard/internal/domain/product"
	"github.com/xanter/salesboard/internal/domain/purchase"
	"github.com/xanter/salesboard/internal/domain/seller"
)

// Sentinel errors for boundary validation.
var (
	// ErrInvalidInput indicates a missing or empty input collection.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrInvalidOptions indicates a missing strategy function.
	ErrInvalidOptions = errors.New("invalid options")
)

// RevenueFunc computes the monetary revenue for one line item.
// It must return a finite non-negative amount; a non-nil error aborts the run.
type RevenueFunc func(item purchase.Item, p product.Product) (decimal.Decimal, error)

// BonusFunc computes a seller's bonus from its 0-based rank in the
// profit-descending ordering, the total seller count, and the accumulated
// stats. A non-nil error aborts the run.
type BonusFunc func(rank, total int, s *SellerStats) (decimal.Decimal, error)

// Dataset is the fully materialized input for one pipeline run.
type Dataset struct {
	Sellers         []seller.Seller
	Products        []product.Product
	PurchaseRecords []purchase.Record
}

// Options carries the caller-supplied strategy functions.
type Options struct {
	CalculateRevenue RevenueFunc
	CalculateBonus   BonusFunc
}

// SellerStats is the mutable per-seller accumulator. It is created at run
// start, mutated only during the fold, and discarded once the report is built.
type SellerStats struct {
	SellerID   string
	Name       string
	Revenue    decimal.Decimal
	Profit     decimal.Decimal
	SalesCount int
	Bonus      decimal.Decimal

	// productQty tracks cumulative quantity per SKU; skuOrder remembers the
	// order in which SKUs were first seen, so quantity ties in the top-products
	// list resolve deterministically.
	productQty map[string]int
	skuOrder   []string
}

func (s *SellerStats) addQuantity(sku string, qty int) {
	if _, ok := s.productQty[sku]; !ok {
		s.skuOrder = append(s.skuOrder, sku)
	}
	s.productQty[sku] += qty
}

// ProductQuantity is one entry of a seller's top-products list.
type ProductQuantity struct {
	SKU      string
	Quantity int
}

// SellerReport is the immutable per-seller output record. Monetary fields are
// rounded to 2 decimal places, half away from zero.
type SellerReport struct {
	SellerID    string
	Name        string
	Revenue     decimal.Decimal
	Profit      decimal.Decimal
	SalesCount  int
	TopProducts []ProductQuantity
	Bonus       decimal.Decimal
}
