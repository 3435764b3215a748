package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/polkiloo/orderservice/internal/adapter/downstream"
	domainErrors "github.com/polkiloo/orderservice/internal/domain/errors"
	"github.com/polkiloo/orderservice/internal/domain/model"
)

// ErrNoCart is returned when the cart service answers without a cart.
var ErrNoCart = fmt.Errorf("%w: cart service returned no cart", domainErrors.ErrEmptyCart)

// Provider reads and clears the caller's cart.
type Provider interface {
	Get(ctx context.Context, token string) (*model.Cart, error)
	Clear(ctx context.Context, token string) error
}

// HTTPClient talks to the cart service on behalf of the caller.
type HTTPClient struct {
	client *downstream.Client
}

// RequestError carries the message shown to callers when a cart call fails.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// describe prefers the cart service's own message and falls back to fallback.
func describe(err error, fallback string) error {
	var statusErr *downstream.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Message != "" {
			return &RequestError{Message: statusErr.Message, Err: err}
		}
		return &RequestError{Message: fallback, Err: err}
	}
	return &RequestError{Message: fmt.Sprintf("%s: %v", fallback, err), Err: err}
}

type itemPayload struct {
	ProductID   downstream.ID `json:"productId"`
	ProductName string        `json:"productName"`
	Quantity    int           `json:"quantity"`
	Price       float64       `json:"price"`
}

type cartPayload struct {
	Items       []itemPayload `json:"items"`
	TotalAmount float64       `json:"totalAmount"`
	TotalItems  int           `json:"totalItems"`
}

type getResponse struct {
	Cart *cartPayload `json:"cart"`
}

// NewHTTPClient creates a cart client for the service mounted at baseURL.
func NewHTTPClient(baseURL string, opts downstream.Options) (*HTTPClient, error) {
	client, err := downstream.New("cart", baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{client: client}, nil
}

// Get fetches the caller's cart with GET {cart}.
func (c *HTTPClient) Get(ctx context.Context, token string) (*model.Cart, error) {
	var resp getResponse
	if err := c.client.Do(ctx, http.MethodGet, token, nil, &resp); err != nil {
		return nil, describe(err, "failed to get cart")
	}
	if resp.Cart == nil {
		return nil, ErrNoCart
	}

	cart := &model.Cart{
		Items:       make([]model.CartItem, 0, len(resp.Cart.Items)),
		TotalAmount: resp.Cart.TotalAmount,
		TotalItems:  resp.Cart.TotalItems,
	}
	for _, item := range resp.Cart.Items {
		cart.Items = append(cart.Items, model.CartItem{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return cart, nil
}

// Clear empties the caller's cart with DELETE {cart}/clear.
func (c *HTTPClient) Clear(ctx context.Context, token string) error {
	if err := c.client.Do(ctx, http.MethodDelete, token, nil, nil, "clear"); err != nil {
		return describe(err, "failed to clear cart")
	}
	return nil
}
