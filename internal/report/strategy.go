package report

import (
	"github.com/shopspring/decimal"

	"github.com/xanter/salesboard/internal/domain/product"
	"github.com/xanter/salesboard/internal/domain/purchase"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// Bonus tier rates, by rank in the profit ordering.
	topRate     = decimal.New(15, -2) // 0.15 for rank 0
	runnerRate  = decimal.New(10, -2) // 0.10 for ranks 1 and 2
	defaultRate = decimal.New(5, -2)  // 0.05 for everyone else but last
)

// SimpleRevenue is the canonical revenue strategy: the line item's unit price
// times quantity, discounted by the item's percentage.
func SimpleRevenue(item purchase.Item, _ product.Product) (decimal.Decimal, error) {
	factor := one.Sub(item.Discount.Div(hundred))
	qty := decimal.NewFromInt(int64(item.Quantity))
	return item.SalePrice.Mul(qty).Mul(factor), nil
}

// BonusByProfitRank is the canonical bonus strategy: 15% of profit for the top
// performer, 10% for ranks 1 and 2, nothing for the bottom performer, 5%
// otherwise.
//
// The rank-0 clause is checked before the last-rank clause, so a lone seller
// gets the top tier rather than zero. Do not reorder the cases.
func BonusByProfitRank(rank, total int, s *SellerStats) (decimal.Decimal, error) {
	switch {
	case rank == 0:
		return s.Profit.Mul(topRate), nil
	case rank == 1 || rank == 2:
		return s.Profit.Mul(runnerRate), nil
	case rank == total-1:
		return decimal.Zero, nil
	default:
		return s.Profit.Mul(defaultRate), nil
	}
}

// DefaultOptions returns Options wired with the canonical strategies.
func DefaultOptions() Options {
	return Options{
		CalculateRevenue: SimpleRevenue,
		CalculateBonus:   BonusByProfitRank,
	}
}
