package catalog

import (
	"context"
	"errors"

	"github.com/shopfront/cartstore/internal/domain"
)

// Errors returned by catalog lookups.
var (
	ErrNotFound    = errors.New("product not found in catalog")
	ErrUnavailable = errors.New("catalog unavailable")
)

// Client is the stock-availability and product-metadata lookup consumed by
// the cart store. GetProduct returns display metadata only; the returned
// Amount is always zero.
type Client interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}
