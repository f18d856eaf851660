package report

import "sort"

// rankByProfit orders the accumulators by descending profit. The sort is
// stable: equal-profit sellers keep their original input order, which defines
// the rank used for bonus tiers.
func rankByProfit(stats []*SellerStats) {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Profit.GreaterThan(stats[j].Profit)
	})
}

// assignBonuses invokes the bonus strategy once per seller in ascending rank
// order. The bonus is rounded at assignment time, independently of how
// revenue and profit are rounded later.
func assignBonuses(ranked []*SellerStats, bonus BonusFunc) error {
	total := len(ranked)
	for rank, st := range ranked {
		b, err := bonus(rank, total, st)
		if err != nil {
			return err
		}
		st.Bonus = roundMoney(b)
	}
	return nil
}
