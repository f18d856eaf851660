package report

import (
	"fmt"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xanter/salesboard/internal/domain/product"
	"github.com/xanter/salesboard/internal/domain/purchase"
	"github.com/xanter/salesboard/internal/domain/seller"
)

// --- Helpers ---

func newSeller(id, first, last string) seller.Seller {
	return seller.Seller{ID: id, FirstName: first, LastName: last}
}

func newProduct(sku string, purchasePrice string) product.Product {
	return product.Product{
		SKU:           sku,
		Name:          "Product " + sku,
		PurchasePrice: decimal.RequireFromString(purchasePrice),
	}
}

func newItem(sku string, qty int, salePrice, discount string) purchase.Item {
	return purchase.Item{
		SKU:       sku,
		Quantity:  qty,
		SalePrice: decimal.RequireFromString(salePrice),
		Discount:  decimal.RequireFromString(discount),
	}
}

func newRecord(sellerID string, items ...purchase.Item) purchase.Record {
	return purchase.Record{SellerID: sellerID, Items: items}
}

func validDataset() *Dataset {
	return &Dataset{
		Sellers:  []seller.Seller{newSeller("s1", "A", "B")},
		Products: []product.Product{newProduct("X", "10")},
		PurchaseRecords: []purchase.Record{
			newRecord("s1", newItem("X", 2, "50", "0")),
		},
	}
}

// --- Validation ---

func TestAnalyze_NilData(t *testing.T) {
	_, err := Analyze(nil, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalyze_EmptyCollections(t *testing.T) {
	base := validDataset()

	tests := []struct {
		name   string
		mutate func(*Dataset)
	}{
		{"empty sellers", func(d *Dataset) { d.Sellers = nil }},
		{"empty products", func(d *Dataset) { d.Products = nil }},
		{"empty purchase records", func(d *Dataset) { d.PurchaseRecords = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := *base
			tt.mutate(&data)
			_, err := Analyze(&data, DefaultOptions())
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAnalyze_MissingStrategies(t *testing.T) {
	_, err := Analyze(validDataset(), Options{CalculateBonus: BonusByProfitRank})
	require.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Analyze(validDataset(), Options{CalculateRevenue: SimpleRevenue})
	require.ErrorIs(t, err, ErrInvalidOptions)
}

// --- End-to-end scenario ---

func TestAnalyze_SingleSellerScenario(t *testing.T) {
	reports, err := Analyze(validDataset(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, "s1", r.SellerID)
	assert.Equal(t, "A B", r.Name)
	// revenue = 2 * 50 * (1 - 0/100) = 100, cost = 10 * 2 = 20, profit = 80
	assert.Equal(t, "100.00", r.Revenue.StringFixed(2))
	assert.Equal(t, "80.00", r.Profit.StringFixed(2))
	assert.Equal(t, 1, r.SalesCount)
	require.Len(t, r.TopProducts, 1)
	assert.Equal(t, ProductQuantity{SKU: "X", Quantity: 2}, r.TopProducts[0])
	// Lone seller is rank 0 and last simultaneously; top tier wins: 80 * 0.15.
	assert.Equal(t, "12.00", r.Bonus.StringFixed(2))
}

// --- Accumulation semantics ---

func TestAnalyze_SalesCountPerRecordNotPerItem(t *testing.T) {
	data := validDataset()
	data.Products = append(data.Products, newProduct("Y", "5"))
	data.PurchaseRecords = []purchase.Record{
		newRecord("s1", newItem("X", 1, "50", "0"), newItem("Y", 3, "20", "0")),
		newRecord("s1", newItem("X", 1, "50", "0")),
	}

	reports, err := Analyze(data, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 2, reports[0].SalesCount)
}

func TestAnalyze_UnknownSellerSkipsWholeRecord(t *testing.T) {
	data := validDataset()
	data.PurchaseRecords = append(data.PurchaseRecords,
		newRecord("ghost", newItem("X", 100, "50", "0")),
	)

	reports, err := Analyze(data, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	// The ghost record must not leak into s1's totals.
	assert.Equal(t, 1, reports[0].SalesCount)
	assert.Equal(t, "100.00", reports[0].Revenue.StringFixed(2))
}

func TestAnalyze_UnknownProductSkipsItemOnly(t *testing.T) {
	data := validDataset()
	data.PurchaseRecords = []purchase.Record{
		newRecord("s1",
			newItem("missing", 5, "99", "0"),
			newItem("X", 2, "50", "0"),
		),
	}

	reports, err := Analyze(data, DefaultOptions())
	require.NoError(t, err)
	r := reports[0]

	// The record still counts and the known sibling item still accumulates.
	assert.Equal(t, 1, r.SalesCount)
	assert.Equal(t, "100.00", r.Revenue.StringFixed(2))
	require.Len(t, r.TopProducts, 1)
	assert.Equal(t, "X", r.TopProducts[0].SKU)
}

func TestAnalyze_DuplicateKeysLastWriteWins(t *testing.T) {
	data := validDataset()
	// Second product with the same SKU overrides the first one's cost basis.
	data.Products = append(data.Products, product.Product{
		SKU:           "X",
		PurchasePrice: decimal.RequireFromString("40"),
	})

	reports, err := Analyze(data, DefaultOptions())
	require.NoError(t, err)
	// profit = 100 - 40*2 = 20
	assert.Equal(t, "20.00", reports[0].Profit.StringFixed(2))
}

// --- Ranking and ordering ---

func TestAnalyze_OutputOrderedByProfitDescending(t *testing.T) {
	data := &Dataset{
		Sellers: []seller.Seller{
			newSeller("low", "Low", "Seller"),
			newSeller("high", "High", "Seller"),
		},
		Products: []product.Product{newProduct("X", "10")},
		PurchaseRecords: []purchase.Record{
			newRecord("low", newItem("X", 1, "20", "0")),
			newRecord("high", newItem("X", 1, "200", "0")),
		},
	}

	reports, err := Analyze(data, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "high", reports[0].SellerID)
	assert.Equal(t, "low", reports[1].SellerID)
	assert.True(t, reports[0].Profit.GreaterThanOrEqual(reports[1].Profit))
}

func TestAnalyze_EqualProfitKeepsInputOrder(t *testing.T) {
	sellers := make([]seller.Seller, 6)
	records := make([]purchase.Record, 6)
	for i := range sellers {
		id := fmt.Sprintf("s%d", i+1)
		sellers[i] = newSeller(id, "Seller", id)
		records[i] = newRecord(id, newItem("X", 1, "50", "0"))
	}

	data := &Dataset{
		Sellers:         sellers,
		Products:        []product.Product{newProduct("X", "10")},
		PurchaseRecords: records,
	}

	reports, err := Analyze(data, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, reports, 6)
	for i, r := range reports {
		assert.Equal(t, fmt.Sprintf("s%d", i+1), r.SellerID, "stable tie-break must keep input order")
	}
}

// --- Strategy failure ---

func TestAnalyze_RevenueStrategyErrorAborts(t *testing.T) {
	opts := Options{
		CalculateRevenue: func(purchase.Item, product.Product) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("boom")
		},
		CalculateBonus: BonusByProfitRank,
	}

	reports, err := Analyze(validDataset(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, reports, "no partial report on strategy failure")
}

func TestAnalyze_BonusStrategyErrorAborts(t *testing.T) {
	opts := Options{
		CalculateRevenue: SimpleRevenue,
		CalculateBonus: func(int, int, *SellerStats) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("bonus exploded")
		},
	}

	reports, err := Analyze(validDataset(), opts)
	require.Error(t, err)
	assert.Nil(t, reports)
}

// --- Rounding ---

func TestAnalyze_RoundingOnlyAtOutput(t *testing.T) {
	// Three items of 0.333... revenue each: rounding per item would give
	// 0.33*3 = 0.99; rounding the sum gives 1.00.
	data := &Dataset{
		Sellers:  []seller.Seller{newSeller("s1", "A", "B")},
		Products: []product.Product{newProduct("X", "0")},
		PurchaseRecords: []purchase.Record{
			newRecord("s1",
				newItem("X", 1, "0.333333333333", "0"),
				newItem("X", 1, "0.333333333333", "0"),
				newItem("X", 1, "0.333333333333", "0"),
			),
		},
	}

	reports, err := Analyze(data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "1.00", reports[0].Revenue.StringFixed(2))
}

func TestRoundMoney_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.675", "2.68"},
		{"2.665", "2.67"},
		{"1.005", "1.01"},
		{"-2.675", "-2.68"},
		{"100", "100.00"},
	}
	for _, tt := range tests {
		got := roundMoney(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.want, got.StringFixed(2), "round(%s)", tt.in)
	}
}

func TestRoundMoney_Idempotent(t *testing.T) {
	v := decimal.RequireFromString("123.456789")
	once := roundMoney(v)
	twice := roundMoney(once)
	assert.True(t, once.Equal(twice))
}
