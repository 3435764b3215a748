package test

import (
	"context"

	"github.com/polkiloo/orderservice/internal/domain/model"
)

// OrderFacadeStub implements customer order operations.
type OrderFacadeStub struct {
	CreateFn        func(context.Context, model.Identity, string, model.CheckoutInput) (*model.Order, error)
	MyOrdersFn      func(context.Context, string, model.OrderStatus, model.Pagination) (*model.OrderPage, error)
	OrderFn         func(context.Context, string, string) (*model.Order, error)
	OrderByNumberFn func(context.Context, string, string) (*model.Order, error)
	CancelFn        func(context.Context, string, string) (*model.Order, error)
}

func (s OrderFacadeStub) CreateOrder(ctx context.Context, caller model.Identity, token string, input model.CheckoutInput) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, caller, token, input)
	}
	return &model.Order{ID: "order-1", UserID: caller.ID, Status: model.OrderStatusPending}, nil
}

func (s OrderFacadeStub) MyOrders(ctx context.Context, userID string, status model.OrderStatus, page model.Pagination) (*model.OrderPage, error) {
	if s.MyOrdersFn != nil {
		return s.MyOrdersFn(ctx, userID, status, page)
	}
	return &model.OrderPage{Orders: []model.Order{}, CurrentPage: page.Page}, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, id, userID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id, userID)
	}
	return &model.Order{ID: id, UserID: userID, Status: model.OrderStatusPending}, nil
}

func (s OrderFacadeStub) OrderByNumber(ctx context.Context, number, userID string) (*model.Order, error) {
	if s.OrderByNumberFn != nil {
		return s.OrderByNumberFn(ctx, number, userID)
	}
	return &model.Order{ID: "order-1", OrderNumber: number, UserID: userID, Status: model.OrderStatusPending}, nil
}

func (s OrderFacadeStub) CancelOrder(ctx context.Context, id, userID string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id, userID)
	}
	return &model.Order{ID: id, UserID: userID, Status: model.OrderStatusCancelled}, nil
}

// AdminFacadeStub implements administrative operations.
type AdminFacadeStub struct {
	AllOrdersFn    func(context.Context, string, model.OrderStatus, model.Pagination) (*model.OrderPage, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus) (*model.Order, error)
	StatsFn        func(context.Context) (*model.OrderStats, error)
}

func (s AdminFacadeStub) AllOrders(ctx context.Context, userID string, status model.OrderStatus, page model.Pagination) (*model.OrderPage, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, userID, status, page)
	}
	return &model.OrderPage{Orders: []model.Order{}, CurrentPage: page.Page}, nil
}

func (s AdminFacadeStub) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	return &model.Order{ID: id, Status: status}, nil
}

func (s AdminFacadeStub) OrderStats(ctx context.Context) (*model.OrderStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx)
	}
	return &model.OrderStats{ByStatus: []model.StatusStat{}}, nil
}

// ServiceFacadeStub combines all facade stubs.
type ServiceFacadeStub struct {
	OrderFacadeStub
	AdminFacadeStub
	VerifierStub
	ReadyErr error
}

func (s ServiceFacadeStub) Ready(context.Context) error {
	return s.ReadyErr
}
