package inventory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/polkiloo/orderservice/internal/adapter/downstream"
	domainErrors "github.com/polkiloo/orderservice/internal/domain/errors"
)

// StockAdjuster changes product stock in the product service.
type StockAdjuster interface {
	DecrementStock(ctx context.Context, productID string, quantity int, token string) error
}

// HTTPClient sends stock adjustments to the product service.
type HTTPClient struct {
	client *downstream.Client
}

type stockRequest struct {
	Quantity int `json:"quantity"`
}

// NewHTTPClient creates a product service client for baseURL.
func NewHTTPClient(baseURL string, opts downstream.Options) (*HTTPClient, error) {
	client, err := downstream.New("product", baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{client: client}, nil
}

// DecrementStock sends PATCH {product}/{id}/stock with a negative quantity delta.
// Ids that would resolve to another path segment are rejected before sending.
func (c *HTTPClient) DecrementStock(ctx context.Context, productID string, quantity int, token string) error {
	switch productID {
	case "", ".", "..":
		return fmt.Errorf("product id %q: %w", productID, domainErrors.ErrInvalidCartItem)
	}
	return c.client.Do(ctx, http.MethodPatch, token, stockRequest{Quantity: -quantity}, nil,
		url.PathEscape(productID), "stock")
}
