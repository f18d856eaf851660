package report

import "github.com/shopspring/decimal"

// roundMoney rounds a monetary amount to 2 decimal places, half away from
// zero. Applied once per output field, never to running totals.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// buildReports converts the ranked accumulators into the immutable output
// records. Output order is rank order.
func buildReports(ranked []*SellerStats) []SellerReport {
	out := make([]SellerReport, len(ranked))
	for i, st := range ranked {
		out[i] = SellerReport{
			SellerID:    st.SellerID,
			Name:        st.Name,
			Revenue:     roundMoney(st.Revenue),
			Profit:      roundMoney(st.Profit),
			SalesCount:  st.SalesCount,
			TopProducts: topProducts(st),
			Bonus:       st.Bonus,
		}
	}
	return out
}
