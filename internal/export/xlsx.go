package export

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/xanter/salesboard/internal/report"
)

const sheetName = "Seller Report"

// WriteXLSX renders the report as an Excel workbook with a single sheet, one
// row per seller in rank order.
func WriteXLSX(w io.Writer, reports []report.SellerReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return errors.Wrap(err, "create sheet")
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "drop default sheet")
	}

	header := make([]any, len(csvColumns))
	for i, c := range csvColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i := range reports {
		r := &reports[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		row := []any{
			r.SellerID,
			r.Name,
			r.Revenue.InexactFloat64(),
			r.Profit.InexactFloat64(),
			r.SalesCount,
			r.Bonus.InexactFloat64(),
			formatTopProducts(r.TopProducts),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}
