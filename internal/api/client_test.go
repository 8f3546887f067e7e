package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/appliance-compare/internal/api"
)

func newTestCatalogServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchProducts_BareArray(t *testing.T) {
	srv := newTestCatalogServer(t, http.StatusOK, `[
		{"id": 12, "brand": "Sharp", "model": "CV-R71", "price": 24800, "daily_capacity": 8},
		{"id": "dh-002", "brand": "Panasonic", "price": "31,800", "specs": {"noise_level": 38}}
	]`)

	records, err := api.NewClient(srv.URL, "").FetchProducts(context.Background(), "dehumidifier", false)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "12", records[0].ID.String())
	assert.Equal(t, "Sharp", records[0].Brand)

	v, ok := records[0].Lookup("dehumidification", "daily_capacity")
	require.True(t, ok)
	assert.Equal(t, "8", v.(interface{ String() string }).String())

	v, ok = records[1].Lookup("noise_level")
	require.True(t, ok)
	assert.NotNil(t, v)
	assert.Equal(t, "31,800", records[1].Price)
}

func TestFetchProducts_Envelope(t *testing.T) {
	srv := newTestCatalogServer(t, http.StatusOK, `{"products": [{"id": "fan-001", "brand": "Balmuda"}]}`)

	records, err := api.NewClient(srv.URL, "").FetchProducts(context.Background(), "fan", false)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fan-001", records[0].ID.String())
}

func TestFetchProducts_QueryAndAuthHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.heater", q.Get("category"))
		assert.Equal(t, "eq.true", q.Get("in_stock"))
		assert.Equal(t, "*", q.Get("select"))
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("User-Agent"), "appcmp/")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	records, err := api.NewClient(srv.URL+"/", "secret").FetchProducts(context.Background(), "heater", true)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchProducts_NonOKStatus(t *testing.T) {
	srv := newTestCatalogServer(t, http.StatusServiceUnavailable, `{"message":"down"}`)

	_, err := api.NewClient(srv.URL, "").FetchProducts(context.Background(), "fan", false)

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnavailable)
	assert.Contains(t, err.Error(), "unexpected status 503")
	assert.Contains(t, err.Error(), "fetching fan products")
}

func TestFetchProducts_MalformedBody(t *testing.T) {
	srv := newTestCatalogServer(t, http.StatusOK, `{"products": "nope"`)

	_, err := api.NewClient(srv.URL, "").FetchProducts(context.Background(), "fan", false)

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrBadResponse)
	assert.NotErrorIs(t, err, api.ErrUnavailable)
}

func TestFetchProducts_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := api.NewClient(srv.URL, "", api.WithTimeout(20*time.Millisecond))
	_, err := client.FetchProducts(context.Background(), "heater", false)

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrTimeout)
}

func TestDecodeCatalogFile(t *testing.T) {
	records, err := api.DecodeCatalogFile([]byte(`{"products":[{"ID":"ac-001","Brand":"Daikin"}]}`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ac-001", records[0].ID.String())
	assert.Equal(t, "Daikin", records[0].Brand)

	_, err = api.DecodeCatalogFile([]byte("   "))
	assert.Error(t, err)
}
