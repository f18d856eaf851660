// Package dataset loads the raw sales payload (sellers, products, purchase
// records) from JSON files into a report.Dataset. Gzip-compressed files are
// decompressed transparently.
//
// The loader is deliberately lenient about shape: missing collections come
// back empty and are rejected later by report.Analyze, which owns boundary
// validation. Identifiers and SKUs may be JSON strings or numbers.
package dataset

import (
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xanter/salesboard/internal/domain/product"
	"github.com/xanter/salesboard/internal/domain/purchase"
	"github.com/xanter/salesboard/internal/domain/seller"
	"github.com/xanter/salesboard/internal/report"
)

// Load reads a dataset from the given path. Files ending in .gz are
// decompressed on the fly.
func Load(path string) (*report.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	return Decode(r)
}

// Decode parses a dataset from JSON.
func Decode(r io.Reader) (*report.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read payload")
	}
	return DecodeBytes(raw)
}

// DecodeBytes parses a dataset from a JSON byte slice.
func DecodeBytes(raw []byte) (*report.Dataset, error) {
	var data report.Dataset

	d := jx.DecodeBytes(raw)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "sellers":
			return d.Arr(func(d *jx.Decoder) error {
				s, err := decodeSeller(d)
				if err != nil {
					return err
				}
				data.Sellers = append(data.Sellers, s)
				return nil
			})
		case "products":
			return d.Arr(func(d *jx.Decoder) error {
				p, err := decodeProduct(d)
				if err != nil {
					return err
				}
				data.Products = append(data.Products, p)
				return nil
			})
		case "purchase_records":
			return d.Arr(func(d *jx.Decoder) error {
				rec, err := decodeRecord(d)
				if err != nil {
					return err
				}
				data.PurchaseRecords = append(data.PurchaseRecords, rec)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode dataset")
	}

	return &data, nil
}

func decodeSeller(d *jx.Decoder) (seller.Seller, error) {
	var s seller.Seller
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			s.ID, err = decodeKey(d)
		case "first_name":
			s.FirstName, err = d.Str()
		case "last_name":
			s.LastName, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return s, err
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "sku":
			p.SKU, err = decodeKey(d)
		case "name":
			p.Name, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "purchase_price":
			p.PurchasePrice, err = decodeDecimal(d)
		case "sale_price":
			p.SalePrice, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

// DecodeRecord decodes a single purchase record object, such as one line of
// a JSONL receipt export.
func DecodeRecord(raw []byte) (purchase.Record, error) {
	return decodeRecord(jx.DecodeBytes(raw))
}

func decodeRecord(d *jx.Decoder) (purchase.Record, error) {
	var rec purchase.Record
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "receipt_id":
			rec.ReceiptID, err = decodeKey(d)
		case "seller_id":
			rec.SellerID, err = decodeKey(d)
		case "total_amount":
			rec.TotalAmount, err = decodeDecimal(d)
		case "total_discount":
			rec.TotalDiscount, err = decodeDecimal(d)
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				rec.Items = append(rec.Items, item)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return rec, err
}

func decodeItem(d *jx.Decoder) (purchase.Item, error) {
	var item purchase.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "sku", "product_id":
			item.SKU, err = decodeKey(d)
		case "quantity":
			item.Quantity, err = d.Int()
		case "sale_price":
			item.SalePrice, err = decodeDecimal(d)
		case "discount":
			item.Discount, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return item, err
}

// decodeKey reads an identifier that may be a JSON string or number.
func decodeKey(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", errors.Errorf("unexpected identifier type %v", d.Next())
	}
}

// decodeDecimal reads a monetary value from a JSON number or numeric string.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := decimal.NewFromString(strings.Trim(n.String(), `"`))
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse decimal")
	}
	return v, nil
}
