package handlers

import (
	"context"

	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/server/http/middleware"
)

// OrderFacade encapsulates customer order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, caller model.Identity, token string, input model.CheckoutInput) (*model.Order, error)
	MyOrders(ctx context.Context, userID string, status model.OrderStatus, page model.Pagination) (*model.OrderPage, error)
	Order(ctx context.Context, id, userID string) (*model.Order, error)
	OrderByNumber(ctx context.Context, number, userID string) (*model.Order, error)
	CancelOrder(ctx context.Context, id, userID string) (*model.Order, error)
}

// AdminFacade provides operations reserved for administrators.
type AdminFacade interface {
	AllOrders(ctx context.Context, userID string, status model.OrderStatus, page model.Pagination) (*model.OrderPage, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	OrderStats(ctx context.Context) (*model.OrderStats, error)
}

// ReadinessProbe reports whether backing services are reachable.
type ReadinessProbe interface {
	Ready(ctx context.Context) error
}

// ServiceFacade aggregates the full set of operations used across handlers.
type ServiceFacade interface {
	OrderFacade
	AdminFacade
	ReadinessProbe
	middleware.IdentityVerifier
}
