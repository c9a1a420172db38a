package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopfront/cartstore/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 10 * time.Second

// HTTPClient talks to a catalog service exposing GET /stock/{id} and
// GET /products/{id}. All calls go through a circuit breaker so a dead
// catalog fails fast instead of eating the full timeout on every mutation,
// and concurrent identical lookups are collapsed with singleflight.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	sfg     singleflight.Group
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A 404 is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}
}

func (c *HTTPClient) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	key := fmt.Sprintf("stock/%d", productID)

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		var stock domain.Stock
		if err := c.getJSON(ctx, "/"+key, &stock); err != nil {
			return domain.Stock{}, err
		}
		return stock, nil
	})
	if err != nil {
		return domain.Stock{}, err
	}

	return v.(domain.Stock), nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	key := fmt.Sprintf("products/%d", productID)

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		var product domain.Product
		if err := c.getJSON(ctx, "/"+key, &product); err != nil {
			return domain.Product{}, err
		}
		product.Amount = 0
		return product, nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	return v.(domain.Product), nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit breaker open", ErrUnavailable)
		}
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
