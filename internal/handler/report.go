package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xanter/salesboard/internal/dataset"
	"github.com/xanter/salesboard/internal/export"
	"github.com/xanter/salesboard/internal/report"
)

// GetSellerReport serves the latest computed seller report. The format query
// parameter selects the representation: json (default), csv or xlsx.
func (h *Handler) GetSellerReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshots.Current()
	if !ok {
		writeError(w, r, http.StatusServiceUnavailable, "report not computed yet")
		return
	}
	w.Header().Set("X-Report-Computed-At", snap.ComputedAt.Format(time.RFC3339))

	switch format := reportFormat(r); format {
	case "", "json":
		writeJSON(w, r, http.StatusOK, export.EncodeJSON(snap.Reports))
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="seller_report.csv"`)
		if err := export.WriteCSV(w, snap.Reports); err != nil {
			zctx.From(r.Context()).Error("write csv report", zap.Error(err))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="seller_report.xlsx"`)
		if err := export.WriteXLSX(w, snap.Reports); err != nil {
			zctx.From(r.Context()).Error("write xlsx report", zap.Error(err))
		}
	default:
		writeError(w, r, http.StatusBadRequest, "unknown format: "+format)
	}
}

// reportFormat resolves the requested representation: the format query
// parameter wins, then the Accept header, then JSON.
func reportFormat(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	switch accept := r.Header.Get("Accept"); {
	case strings.Contains(accept, "text/csv"):
		return "csv"
	case strings.Contains(accept, "spreadsheetml"):
		return "xlsx"
	}
	return ""
}

// AnalyzeDataset computes a report for a dataset supplied in the request body
// without touching stored data.
func (h *Handler) AnalyzeDataset(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer func() {
		_ = body.Close()
	}()

	data, err := dataset.Decode(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "malformed dataset: "+err.Error())
		return
	}

	reports, err := report.Analyze(data, report.DefaultOptions())
	switch {
	case errors.Is(err, report.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		zctx.From(r.Context()).Error("analyze dataset", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, r, http.StatusOK, export.EncodeJSON(reports))
}
