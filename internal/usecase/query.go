package usecase

import (
	"context"
	"sort"

	"github.com/polkiloo/orderservice/internal/domain/model"
)

func normalize(p model.Pagination) model.Pagination {
	if p.Page < 1 {
		p.Page = model.DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = model.DefaultLimit
	}
	p.Page = min(p.Page, model.MaxPage)
	p.Limit = min(p.Limit, model.MaxLimit)
	return p
}

// MyOrders lists the caller's orders newest first.
func (u *OrderUseCase) MyOrders(ctx context.Context, userID string, status model.OrderStatus, page model.Pagination) (*model.OrderPage, error) {
	return u.list(ctx, model.OrderFilter{UserID: userID, Status: status}, page)
}

// AllOrders lists every order, optionally narrowed by status and owner.
func (u *OrderUseCase) AllOrders(ctx context.Context, userID string, status model.OrderStatus, page model.Pagination) (*model.OrderPage, error) {
	return u.list(ctx, model.OrderFilter{UserID: userID, Status: status}, page)
}

func (u *OrderUseCase) list(ctx context.Context, filter model.OrderFilter, page model.Pagination) (*model.OrderPage, error) {
	page = normalize(page)
	filter.Offset = (page.Page - 1) * page.Limit
	filter.Limit = page.Limit

	orders, total, err := u.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}

	limit := int64(page.Limit)
	return &model.OrderPage{
		Orders:      orders,
		Total:       total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page.Page,
	}, nil
}

// Order returns one of the caller's orders by id.
func (u *OrderUseCase) Order(ctx context.Context, id, userID string) (*model.Order, error) {
	return u.orders.GetForUser(ctx, id, userID)
}

// OrderByNumber returns one of the caller's orders by order number.
func (u *OrderUseCase) OrderByNumber(ctx context.Context, number, userID string) (*model.Order, error) {
	return u.orders.GetByNumberForUser(ctx, number, userID)
}

// Stats aggregates every order by status.
func (u *OrderUseCase) Stats(ctx context.Context) (*model.OrderStats, error) {
	stats, err := u.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.ByStatus == nil {
		stats.ByStatus = []model.StatusStat{}
	}
	sort.Slice(stats.ByStatus, func(i, j int) bool {
		return stats.ByStatus[i].Status < stats.ByStatus[j].Status
	})
	return stats, nil
}

// Ping reports whether the order store is reachable.
func (u *OrderUseCase) Ping(ctx context.Context) error {
	return u.orders.Ping(ctx)
}
