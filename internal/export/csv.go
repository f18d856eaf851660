package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xanter/salesboard/internal/report"
)

// bom is the UTF-8 byte order mark, written first so Excel on Windows detects
// the encoding.
var bom = []byte{0xEF, 0xBB, 0xBF}

// csvColumns defines the CSV header row.
var csvColumns = []string{
	"Seller ID",
	"Name",
	"Revenue",
	"Profit",
	"Sales Count",
	"Bonus",
	"Top Products",
}

// WriteCSV renders the report as CSV, one row per seller in rank order.
// The top-products list is flattened into a single "sku:qty; ..." cell.
func WriteCSV(w io.Writer, reports []report.SellerReport) error {
	if _, err := w.Write(bom); err != nil {
		return errors.Wrap(err, "write bom")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i := range reports {
		if err := cw.Write(reportToRow(&reports[i])); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

func reportToRow(r *report.SellerReport) []string {
	return []string{
		r.SellerID,
		r.Name,
		r.Revenue.StringFixed(2),
		r.Profit.StringFixed(2),
		strconv.Itoa(r.SalesCount),
		r.Bonus.StringFixed(2),
		formatTopProducts(r.TopProducts),
	}
}

func formatTopProducts(tps []report.ProductQuantity) string {
	parts := make([]string, len(tps))
	for i, tp := range tps {
		parts[i] = fmt.Sprintf("%s:%d", tp.SKU, tp.Quantity)
	}
	return strings.Join(parts, "; ")
}
