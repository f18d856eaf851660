// Package export renders a computed seller report as JSON, CSV, or XLSX.
package export

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xanter/salesboard/internal/report"
)

// EncodeJSON renders the report as a JSON array. Monetary fields are emitted
// with exactly two decimal places.
func EncodeJSON(reports []report.SellerReport) []byte {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for i := range reports {
			encodeReport(e, &reports[i])
		}
	})
	return e.Bytes()
}

// WriteJSON writes the JSON rendering of the report to w.
func WriteJSON(w io.Writer, reports []report.SellerReport) error {
	if _, err := w.Write(EncodeJSON(reports)); err != nil {
		return errors.Wrap(err, "write json report")
	}
	return nil
}

func encodeReport(e *jx.Encoder, r *report.SellerReport) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("seller_id", func(e *jx.Encoder) { e.Str(r.SellerID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(r.Name) })
		e.Field("revenue", func(e *jx.Encoder) { e.RawStr(r.Revenue.StringFixed(2)) })
		e.Field("profit", func(e *jx.Encoder) { e.RawStr(r.Profit.StringFixed(2)) })
		e.Field("sales_count", func(e *jx.Encoder) { e.Int(r.SalesCount) })
		e.Field("top_products", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, tp := range r.TopProducts {
					e.Obj(func(e *jx.Encoder) {
						e.Field("sku", func(e *jx.Encoder) { e.Str(tp.SKU) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(tp.Quantity) })
					})
				}
			})
		})
		e.Field("bonus", func(e *jx.Encoder) { e.RawStr(r.Bonus.StringFixed(2)) })
	})
}
