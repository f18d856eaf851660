package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xanter/salesboard/internal/domain/product"
	"github.com/xanter/salesboard/internal/domain/purchase"
	"github.com/xanter/salesboard/internal/domain/seller"
	"github.com/xanter/salesboard/internal/report"
	"github.com/xanter/salesboard/internal/snapshot"
)

// --- Mock repositories ---

type mockSellerRepo struct {
	sellers []seller.Seller
	err     error
}

func (m *mockSellerRepo) List(context.Context) ([]seller.Seller, error) {
	return m.sellers, m.err
}

func (m *mockSellerRepo) GetByID(context.Context, string) (*seller.Seller, error) {
	return nil, seller.ErrNotFound
}

type mockProductRepo struct {
	products []product.Product
	err      error
}

func (m *mockProductRepo) List(context.Context) ([]product.Product, error) {
	return m.products, m.err
}

func (m *mockProductRepo) GetBySKU(context.Context, string) (*product.Product, error) {
	return nil, product.ErrNotFound
}

type mockRecordRepo struct {
	records []purchase.Record
}

func (m *mockRecordRepo) List(context.Context) ([]purchase.Record, error) {
	return m.records, nil
}

func (m *mockRecordRepo) CreateBatch(context.Context, []purchase.Record) error {
	return nil
}

type mockAPIKeyRepo struct {
	byHash map[string]*APIKeyInfo
}

func (m *mockAPIKeyRepo) FindByHash(_ context.Context, hash string) (*APIKeyInfo, error) {
	info, ok := m.byHash[hash]
	if !ok {
		return nil, errors.New("not found")
	}
	return info, nil
}

// --- Fixtures ---

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testRepos() (*mockSellerRepo, *mockProductRepo, *mockRecordRepo) {
	sellers := &mockSellerRepo{sellers: []seller.Seller{
		{ID: "s1", FirstName: "Ada", LastName: "Lovelace"},
	}}
	products := &mockProductRepo{products: []product.Product{
		{SKU: "X", Name: "Widget", Category: "tools", PurchasePrice: money("10"), SalePrice: money("50")},
	}}
	records := &mockRecordRepo{records: []purchase.Record{
		{ReceiptID: "r1", SellerID: "s1", Items: []purchase.Item{
			{SKU: "X", Quantity: 2, SalePrice: money("50"), Discount: money("0")},
		}},
	}}
	return sellers, products, records
}

func newTestHandler(t *testing.T, refresh bool) *Handler {
	t.Helper()
	sellers, products, records := testRepos()
	cache := snapshot.New(sellers, products, records, report.DefaultOptions())
	if refresh {
		require.NoError(t, cache.Refresh(context.Background()))
	}
	return New(Config{}, cache, sellers, products)
}

func serve(h *Handler, auth func(http.Handler) http.Handler, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.Register(mux, auth)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// --- Report endpoint ---

func TestGetSellerReport_NotComputedYet(t *testing.T) {
	h := newTestHandler(t, false)

	rec := serve(h, nil, httptest.NewRequest(http.MethodGet, "/api/report/sellers", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not computed yet")
}

func TestGetSellerReport_JSON(t *testing.T) {
	h := newTestHandler(t, true)

	rec := serve(h, nil, httptest.NewRequest(http.MethodGet, "/api/report/sellers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Report-Computed-At"))

	body := rec.Body.String()
	assert.Contains(t, body, `"seller_id":"s1"`)
	assert.Contains(t, body, `"revenue":100.00`)
	assert.Contains(t, body, `"profit":80.00`)
	assert.Contains(t, body, `"bonus":12.00`)
}

func TestGetSellerReport_CSV(t *testing.T) {
	h := newTestHandler(t, true)

	rec := serve(h, nil, httptest.NewRequest(http.MethodGet, "/api/report/sellers?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "seller_report.csv")
	assert.Contains(t, rec.Body.String(), "Seller ID")
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")
}

func TestGetSellerReport_XLSX(t *testing.T) {
	h := newTestHandler(t, true)

	rec := serve(h, nil, httptest.NewRequest(http.MethodGet, "/api/report/sellers?format=xlsx", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}

func TestGetSellerReport_AcceptHeader(t *testing.T) {
	h := newTestHandler(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/report/sellers", nil)
	req.Header.Set("Accept", "text/csv")
	rec := serve(h, nil, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestGetSellerReport_UnknownFormat(t *testing.T) {
	h := newTestHandler(t, true)

	rec := serve(h, nil, httptest.NewRequest(http.MethodGet, "/api/report/sellers?format=pdf", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown format")
}

// --- Ad-hoc analyze endpoint ---

const analyzePayload = `{
	"sellers": [{"id": "s1", "first_name": "Ada", "last_name": "Lovelace"}],
	"products": [{"sku": "X", "name": "Widget", "category": "tools", "purchase_price": 10, "sale_price": 50}],
	"purchase_records": [
		{"receipt_id": "r1", "seller_id": "s1", "items": [
			{"sku": "X", "quantity": 2, "sale_price": 50, "discount": 0}
		]}
	]
}`

func TestAnalyzeDataset(t *testing.T) {
	h := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/report/analyze", strings.NewReader(analyzePayload))
	rec := serve(h, nil, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"profit":80.00`)
}

func TestAnalyzeDataset_MalformedJSON(t *testing.T) {
	h := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/report/analyze", strings.NewReader(`{"sellers": [`))
	rec := serve(h, nil, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed dataset")
}

func TestAnalyzeDataset_EmptyCollections(t *testing.T) {
	h := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/report/analyze", strings.NewReader(`{"sellers": [], "products": [], "purchase_records": []}`))
	rec := serve(h, nil, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeDataset_BodyTooLarge(t *testing.T) {
	sellers, products, records := testRepos()
	cache := snapshot.New(sellers, products, records, report.DefaultOptions())
	h := New(Config{MaxBodyBytes: 16}, cache, sellers, products)

	req := httptest.NewRequest(http.MethodPost, "/api/report/analyze", strings.NewReader(analyzePayload))
	rec := serve(h, nil, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// --- Catalog endpoints ---

func TestListSellers(t *testing.T) {
	h := newTestHandler(t, false)

	rec := serve(h, nil, httptest.NewRequest(http.MethodGet, "/api/sellers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"s1","first_name":"Ada","last_name":"Lovelace"}]`, rec.Body.String())
}

func TestListSellers_RepositoryError(t *testing.T) {
	sellers := &mockSellerRepo{err: errors.New("db down")}
	products := &mockProductRepo{}
	cache := snapshot.New(sellers, products, &mockRecordRepo{}, report.DefaultOptions())
	h := New(Config{}, cache, sellers, products)

	rec := serve(h, nil, httptest.NewRequest(http.MethodGet, "/api/sellers", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListProducts(t *testing.T) {
	h := newTestHandler(t, false)

	rec := serve(h, nil, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"sku":"X"`)
	assert.Contains(t, body, `"purchase_price":10.00`)
	assert.Contains(t, body, `"sale_price":50.00`)
}

// --- API key auth ---

func TestAPIKeyAuth(t *testing.T) {
	pepper := []byte("test-pepper")
	repo := &mockAPIKeyRepo{byHash: map[string]*APIKeyInfo{
		HashKey(pepper, "valid-key"): {ID: "k1", KeyHash: HashKey(pepper, "valid-key"), Name: "test"},
	}}
	auth := NewAPIKeyAuth(repo, pepper)
	h := newTestHandler(t, false)

	tests := []struct {
		name string
		key  string
		want int
	}{
		{name: "valid key", key: "valid-key", want: http.StatusOK},
		{name: "wrong key", key: "wrong-key", want: http.StatusUnauthorized},
		{name: "missing key", key: "", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/report/analyze", strings.NewReader(analyzePayload))
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := serve(h, auth.Middleware, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAPIKeyAuth_OnlyGuardsAnalyze(t *testing.T) {
	auth := NewAPIKeyAuth(&mockAPIKeyRepo{byHash: map[string]*APIKeyInfo{}}, []byte("p"))
	h := newTestHandler(t, true)

	rec := serve(h, auth.Middleware, httptest.NewRequest(http.MethodGet, "/api/report/sellers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
