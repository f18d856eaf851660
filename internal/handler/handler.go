// Package handler exposes the report and catalog HTTP API.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xanter/salesboard/internal/domain/product"
	"github.com/xanter/salesboard/internal/domain/seller"
	"github.com/xanter/salesboard/internal/snapshot"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// MaxBodyBytes caps the request body size of the ad-hoc analyze endpoint.
	// Zero means the default of 8 MiB.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 8 << 20

// Handler serves the seller report and catalog endpoints, delegating to the
// snapshot cache and the domain repositories.
type Handler struct {
	snapshots    *snapshot.Cache
	sellers      seller.Repository
	products     product.Repository
	maxBodyBytes int64
}

// New constructs a Handler with the required dependencies.
func New(
	cfg Config,
	snapshots *snapshot.Cache,
	sellers seller.Repository,
	products product.Repository,
) *Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Handler{
		snapshots:    snapshots,
		sellers:      sellers,
		products:     products,
		maxBodyBytes: maxBody,
	}
}

// Register attaches all API routes to the mux. The auth middleware guards the
// ad-hoc analyze endpoint; pass nil to leave it open.
func (h *Handler) Register(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	analyze := http.Handler(http.HandlerFunc(h.AnalyzeDataset))
	if auth != nil {
		analyze = auth(analyze)
	}

	mux.HandleFunc("GET /api/report/sellers", h.GetSellerReport)
	mux.Handle("POST /api/report/analyze", analyze)
	mux.HandleFunc("GET /api/sellers", h.ListSellers)
	mux.HandleFunc("GET /api/products", h.ListProducts)
}

// writeJSON writes a pre-encoded JSON body with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		zctx.From(r.Context()).Debug("write response", zap.Error(err))
	}
}

// writeError writes a {code, message} JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(status) })
		e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
	})
	writeJSON(w, r, status, e.Bytes())
}
