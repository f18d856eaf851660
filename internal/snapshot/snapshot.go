// Package snapshot maintains the latest computed seller report in memory.
//
// The report is a pure function of the stored collections, so the service
// recomputes it in the background (at startup and on a schedule) and serves
// the cached result. HTTP handlers read the current snapshot via an atomic
// pointer; Refresh is the only writer.
package snapshot

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"

	"github.com/xanter/salesboard/internal/domain/product"
	"github.com/xanter/salesboard/internal/domain/purchase"
	"github.com/xanter/salesboard/internal/domain/seller"
	"github.com/xanter/salesboard/internal/report"
)

// Snapshot is one computed report with its computation timestamp.
type Snapshot struct {
	Reports    []report.SellerReport
	ComputedAt time.Time
}

// Cache loads the input collections from the repositories, runs the report
// pipeline, and holds the latest successful result.
type Cache struct {
	sellers  seller.Repository
	products product.Repository
	records  purchase.Repository
	opts     report.Options

	cur atomic.Pointer[Snapshot]
}

// New creates a Cache over the given repositories and strategy options.
func New(
	sellers seller.Repository,
	products product.Repository,
	records purchase.Repository,
	opts report.Options,
) *Cache {
	return &Cache{
		sellers:  sellers,
		products: products,
		records:  records,
		opts:     opts,
	}
}

// Refresh loads the collections and recomputes the report. On failure the
// previous snapshot stays in place.
func (c *Cache) Refresh(ctx context.Context) error {
	sellers, err := c.sellers.List(ctx)
	if err != nil {
		return errors.Wrap(err, "load sellers")
	}
	products, err := c.products.List(ctx)
	if err != nil {
		return errors.Wrap(err, "load products")
	}
	records, err := c.records.List(ctx)
	if err != nil {
		return errors.Wrap(err, "load purchase records")
	}

	reports, err := report.Analyze(&report.Dataset{
		Sellers:         sellers,
		Products:        products,
		PurchaseRecords: records,
	}, c.opts)
	if err != nil {
		return errors.Wrap(err, "analyze")
	}

	c.cur.Store(&Snapshot{
		Reports:    reports,
		ComputedAt: time.Now().UTC(),
	})
	return nil
}

// Current returns the latest snapshot, or false if no refresh has succeeded
// yet.
func (c *Cache) Current() (*Snapshot, bool) {
	s := c.cur.Load()
	return s, s != nil
}
