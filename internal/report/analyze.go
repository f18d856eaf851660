package report

import "github.com/go-faster/errors"

// Analyze runs the full pipeline over a materialized dataset and returns the
// per-seller reports ordered by descending profit (rank order).
//
// Validation failures and strategy errors return with no partial result.
// Unknown seller or product references inside purchase records are not
// errors: they are skipped at the smallest possible granularity.
func Analyze(data *Dataset, opts Options) ([]SellerReport, error) {
	if err := validate(data, opts); err != nil {
		return nil, err
	}

	stats, byID := newSellerStats(data.Sellers)
	bySKU := indexProducts(data.Products)

	if err := accumulate(data.PurchaseRecords, byID, bySKU, opts.CalculateRevenue); err != nil {
		return nil, err
	}

	rankByProfit(stats)

	if err := assignBonuses(stats, opts.CalculateBonus); err != nil {
		return nil, err
	}

	return buildReports(stats), nil
}

func validate(data *Dataset, opts Options) error {
	switch {
	case data == nil:
		return errors.Wrap(ErrInvalidInput, "data is required")
	case len(data.Sellers) == 0:
		return errors.Wrap(ErrInvalidInput, "sellers must be a non-empty sequence")
	case len(data.Products) == 0:
		return errors.Wrap(ErrInvalidInput, "products must be a non-empty sequence")
	case len(data.PurchaseRecords) == 0:
		return errors.Wrap(ErrInvalidInput, "purchase_records must be a non-empty sequence")
	}

	if opts.CalculateRevenue == nil {
		return errors.Wrap(ErrInvalidOptions, "revenue strategy is required")
	}
	if opts.CalculateBonus == nil {
		return errors.Wrap(ErrInvalidOptions, "bonus strategy is required")
	}
	return nil
}
