package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogServer(t *testing.T) (*HTTPClient, *httptest.Server) {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/stock/{id}", func(w http.ResponseWriter, req *http.Request) {
		switch chi.URLParam(req, "id") {
		case "1":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":1,"amount":5}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		switch chi.URLParam(req, "id") {
		case "1":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":1,"title":"Lightweight Walking Sneaker","price":179.9,"image":"sneaker-1.jpg"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return NewHTTPClient(srv.URL, 2*time.Second), srv
}

func TestGetStock_Success(t *testing.T) {
	client, _ := setupCatalogServer(t)

	stock, err := client.GetStock(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stock.ID)
	assert.Equal(t, 5, stock.Amount)
}

func TestGetStock_NotFound(t *testing.T) {
	client, _ := setupCatalogServer(t)

	_, err := client.GetStock(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProduct_Success(t *testing.T) {
	client, _ := setupCatalogServer(t)

	product, err := client.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, "Lightweight Walking Sneaker", product.Title)
	assert.Equal(t, 179.9, product.Price)
	assert.Zero(t, product.Amount)
}

func TestGetProduct_NotFound(t *testing.T) {
	client, _ := setupCatalogServer(t)

	_, err := client.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetStock_ServerDown(t *testing.T) {
	client, srv := setupCatalogServer(t)
	srv.Close()

	_, err := client.GetStock(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetStock_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 2*time.Second)
	_, err := client.GetStock(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 2*time.Second)
	ctx := context.Background()

	for i := int64(0); i < 5; i++ {
		_, err := client.GetStock(ctx, 100+i)
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	require.Equal(t, int64(5), hits.Load())

	// Breaker is open now; the next call fails without reaching the server.
	_, err := client.GetStock(ctx, 200)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int64(5), hits.Load())
}

func TestBreaker_NotFoundDoesNotTrip(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 2*time.Second)
	ctx := context.Background()

	for i := int64(0); i < 10; i++ {
		_, err := client.GetStock(ctx, i)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int64(10), hits.Load())
}
