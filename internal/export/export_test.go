package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xanter/salesboard/internal/report"
)

func sampleReports() []report.SellerReport {
	return []report.SellerReport{
		{
			SellerID:   "s1",
			Name:       "A B",
			Revenue:    decimal.RequireFromString("100.00"),
			Profit:     decimal.RequireFromString("80.00"),
			SalesCount: 1,
			TopProducts: []report.ProductQuantity{
				{SKU: "X", Quantity: 2},
				{SKU: "Y", Quantity: 1},
			},
			Bonus: decimal.RequireFromString("12.00"),
		},
		{
			SellerID:   "s2",
			Name:       "C D",
			Revenue:    decimal.RequireFromString("50.50"),
			Profit:     decimal.RequireFromString("10.25"),
			SalesCount: 3,
			Bonus:      decimal.Zero,
		},
	}
}

func TestEncodeJSON(t *testing.T) {
	raw := EncodeJSON(sampleReports())

	// The output must be valid JSON with pinned field names and 2dp money.
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)

	first := decoded[0]
	assert.Equal(t, "s1", first["seller_id"])
	assert.Equal(t, "A B", first["name"])
	assert.InDelta(t, 100.0, first["revenue"], 1e-9)
	assert.InDelta(t, 80.0, first["profit"], 1e-9)
	assert.EqualValues(t, 1, first["sales_count"])
	assert.InDelta(t, 12.0, first["bonus"], 1e-9)

	tops, ok := first["top_products"].([]any)
	require.True(t, ok)
	require.Len(t, tops, 2)
	top := tops[0].(map[string]any)
	assert.Equal(t, "X", top["sku"])
	assert.EqualValues(t, 2, top["quantity"])

	// Fixed 2dp rendering, not float noise.
	assert.Contains(t, string(raw), `"revenue":100.00`)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReports()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, bom), "CSV must start with a UTF-8 BOM")

	rows, err := csv.NewReader(bytes.NewReader(raw[len(bom):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvColumns, rows[0])
	assert.Equal(t, []string{"s1", "A B", "100.00", "80.00", "1", "12.00", "X:2; Y:1"}, rows[1])
	assert.Equal(t, "0.00", rows[2][5])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReports()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Seller ID", rows[0][0])
	assert.Equal(t, "s1", rows[1][0])
	assert.Equal(t, "A B", rows[1][1])
	assert.Equal(t, "1", rows[1][4])
}

func TestWriteCSV_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(bom):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
