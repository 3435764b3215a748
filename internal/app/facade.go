package app

import (
	"context"

	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/usecase"
)

// IdentityVerifier resolves bearer tokens through the auth service.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

// OrderFacade is the single entry point the HTTP layer talks to.
type OrderFacade struct {
	orders   *usecase.OrderUseCase
	identity IdentityVerifier
}

func NewOrderFacade(orders *usecase.OrderUseCase, identity IdentityVerifier) *OrderFacade {
	return &OrderFacade{orders: orders, identity: identity}
}

func (f *OrderFacade) Verify(ctx context.Context, token string) (*model.Identity, error) {
	return f.identity.Verify(ctx, token)
}

func (f *OrderFacade) CreateOrder(ctx context.Context, caller model.Identity, token string, input model.CheckoutInput) (*model.Order, error) {
	return f.orders.CreateFromCart(ctx, caller, token, input)
}

func (f *OrderFacade) MyOrders(ctx context.Context, userID string, status model.OrderStatus, page model.Pagination) (*model.OrderPage, error) {
	return f.orders.MyOrders(ctx, userID, status, page)
}

func (f *OrderFacade) Order(ctx context.Context, id, userID string) (*model.Order, error) {
	return f.orders.Order(ctx, id, userID)
}

func (f *OrderFacade) OrderByNumber(ctx context.Context, number, userID string) (*model.Order, error) {
	return f.orders.OrderByNumber(ctx, number, userID)
}

func (f *OrderFacade) CancelOrder(ctx context.Context, id, userID string) (*model.Order, error) {
	return f.orders.Cancel(ctx, id, userID)
}

func (f *OrderFacade) AllOrders(ctx context.Context, userID string, status model.OrderStatus, page model.Pagination) (*model.OrderPage, error) {
	return f.orders.AllOrders(ctx, userID, status, page)
}

func (f *OrderFacade) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, id, status)
}

func (f *OrderFacade) OrderStats(ctx context.Context) (*model.OrderStats, error) {
	return f.orders.Stats(ctx)
}

func (f *OrderFacade) Ready(ctx context.Context) error {
	return f.orders.Ping(ctx)
}
