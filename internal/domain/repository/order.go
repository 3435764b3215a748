package repository

import (
	"context"

	"github.com/polkiloo/orderservice/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetForUser(ctx context.Context, id, userID string) (*model.Order, error)
	GetByNumberForUser(ctx context.Context, number, userID string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int64, error)
	// UpdateStatus sets status and returns the updated order. A non-nil expected
	// status makes the update conditional; a mismatch is reported as ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, expected *model.OrderStatus) (*model.Order, error)
	Stats(ctx context.Context) (*model.OrderStats, error)
	Ping(ctx context.Context) error
}
