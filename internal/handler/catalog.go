package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// ListSellers returns all known sellers.
func (h *Handler) ListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellers.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list sellers", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to list sellers")
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for _, s := range sellers {
		e.Obj(func(e *jx.Encoder) {
			e.Field("id", func(e *jx.Encoder) { e.Str(s.ID) })
			e.Field("first_name", func(e *jx.Encoder) { e.Str(s.FirstName) })
			e.Field("last_name", func(e *jx.Encoder) { e.Str(s.LastName) })
		})
	}
	e.ArrEnd()
	writeJSON(w, r, http.StatusOK, e.Bytes())
}

// ListProducts returns the product catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list products", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to list products")
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for _, p := range products {
		e.Obj(func(e *jx.Encoder) {
			e.Field("sku", func(e *jx.Encoder) { e.Str(p.SKU) })
			e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
			e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
			e.Field("purchase_price", func(e *jx.Encoder) { e.RawStr(p.PurchasePrice.StringFixed(2)) })
			e.Field("sale_price", func(e *jx.Encoder) { e.RawStr(p.SalePrice.StringFixed(2)) })
		})
	}
	e.ArrEnd()
	writeJSON(w, r, http.StatusOK, e.Bytes())
}
