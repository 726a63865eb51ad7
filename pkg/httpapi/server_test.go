package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekremc/gosegment/pkg/store"
)

type fakeSource struct {
	customers []store.Customer
	err       error
}

func (f *fakeSource) Customers(_ context.Context) ([]store.Customer, error) {
	return f.customers, f.err
}

func (f *fakeSource) Products(_ context.Context) ([]store.Product, error) {
	return nil, f.err
}

func (f *fakeSource) Suppliers(_ context.Context) ([]store.Supplier, error) {
	return nil, f.err
}

func (f *fakeSource) Countries(_ context.Context) ([]store.Country, error) {
	return nil, f.err
}

func (f *fakeSource) Close() error { return nil }

func valid(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func testCustomers() []store.Customer {
	mk := func(id string, orders, spend, aov float64) store.Customer {
		return store.Customer{
			ID:            id,
			CompanyName:   id + " Ltd",
			TotalOrders:   valid(orders),
			TotalSpend:    valid(spend),
			AvgOrderValue: valid(aov),
		}
	}
	return []store.Customer{
		mk("C01", 5, 1000, 100),
		mk("C02", 6, 1100, 105),
		mk("C03", 5, 1050, 102),
		mk("C04", 6, 1000, 98),
		mk("C05", 5, 950, 101),
		mk("C06", 50, 50000, 500),
		mk("C07", 52, 51000, 505),
		mk("C08", 51, 49500, 498),
		mk("C09", 49, 50500, 503),
		mk("C10", 50, 50000, 500),
	}
}

func newTestServer(src store.Source) *httptest.Server {
	return httptest.NewServer(New(src, nil).Handler())
}

func TestGetCustomers(t *testing.T) {
	srv := newTestServer(&fakeSource{customers: testCustomers()})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/customers?eps=0.5&min_samples=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "customers", body["domain"])
	assert.EqualValues(t, 10, body["total"])
	assert.EqualValues(t, 2, body["number_of_clusters"])
	assert.EqualValues(t, 0, body["outliers_count"])

	params, ok := body["parameters"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 0.5, params["eps"])
	assert.EqualValues(t, 3, params["min_samples"])
}

func TestParameterOverrides(t *testing.T) {
	srv := newTestServer(&fakeSource{customers: testCustomers()})
	defer srv.Close()

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{name: "no overrides estimates from data", query: "", wantStatus: http.StatusOK},
		{name: "eps only", query: "?eps=0.5", wantStatus: http.StatusOK},
		{name: "min_samples only", query: "?min_samples=4", wantStatus: http.StatusOK},
		{name: "eps not a number", query: "?eps=abc", wantStatus: http.StatusBadRequest},
		{name: "negative eps", query: "?eps=-1", wantStatus: http.StatusBadRequest},
		{name: "min_samples not an integer", query: "?min_samples=2.5", wantStatus: http.StatusBadRequest},
		{name: "zero min_samples", query: "?min_samples=0", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/customers" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestInsufficientData(t *testing.T) {
	srv := newTestServer(&fakeSource{customers: testCustomers()[:3]})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/customers?eps=0.5&min_samples=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "not enough valid records")
}

func TestSourceFailure(t *testing.T) {
	srv := newTestServer(&fakeSource{err: context.DeadlineExceeded})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/customers?eps=0.5&min_samples=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestUnknownPath(t *testing.T) {
	srv := newTestServer(&fakeSource{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/orders")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPreflight(t *testing.T) {
	srv := newTestServer(&fakeSource{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/customers", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}
