package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/orderservice/internal/domain/errors"
	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/domain/repository"
	"github.com/polkiloo/orderservice/internal/metrics"
)

const defaultProductName = "Product"

// CartService reads and clears the caller's cart.
type CartService interface {
	Get(ctx context.Context, token string) (*model.Cart, error)
	Clear(ctx context.Context, token string) error
}

// StockScheduler accepts stock decrements without blocking the caller.
type StockScheduler interface {
	Schedule(job model.StockAdjustment)
}

// EventPublisher emits order lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders  repository.OrderRepository
	carts   CartService
	stock   StockScheduler
	events  EventPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics

	now       func() time.Time
	newID     func() string
	newNumber func(time.Time) string
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	carts CartService,
	stock StockScheduler,
	events EventPublisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *OrderUseCase {
	return &OrderUseCase{
		orders:    orders,
		carts:     carts,
		stock:     stock,
		events:    events,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
		newID:     uuid.NewString,
		newNumber: NewOrderNumber,
	}
}

// NewOrderNumber formats ORD-{last 8 digits of unix millis}-{000..999}.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%08d-%03d", now.UnixMilli()%100_000_000, rand.Intn(1000))
}

// CreateFromCart turns the caller's cart into a pending order. Stock updates,
// cart clearing and event publishing happen after the order is stored and never
// fail the request.
func (u *OrderUseCase) CreateFromCart(ctx context.Context, caller model.Identity, token string, input model.CheckoutInput) (*model.Order, error) {
	cart, err := u.carts.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domainErrors.ErrEmptyCart) {
			return nil, domainErrors.ErrEmptyCart
		}
		return nil, &domainErrors.CartError{Err: err}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	method := input.PaymentMethod
	if method == "" {
		method = model.PaymentMethodCash
	}
	if !method.Valid() {
		return nil, domainErrors.ErrInvalidPaymentMethod
	}

	items, err := orderItems(cart.Items)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	order := &model.Order{
		ID:              u.newID(),
		OrderNumber:     u.newNumber(now),
		UserID:          caller.ID,
		UserEmail:       caller.Email,
		UserName:        caller.Name,
		Items:           items,
		TotalAmount:     cart.TotalAmount,
		TotalItems:      cart.TotalItems,
		Status:          model.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   method,
		PaymentStatus:   model.PaymentStatusPending,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		u.stock.Schedule(model.StockAdjustment{
			OrderNumber: order.OrderNumber,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Token:       token,
		})
	}

	if err := u.carts.Clear(ctx, token); err != nil {
		u.logger.WarnContext(ctx, "failed to clear cart after checkout",
			slog.String("order_number", order.OrderNumber),
			slog.String("error", err.Error()),
		)
		u.metrics.SideEffectFailed(metrics.OperationCartClear)
	}

	u.publish(ctx, model.OrderEvent{
		Type:        model.OrderEventCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  now,
	})
	u.metrics.OrderCreated()

	return order, nil
}

func orderItems(cartItems []model.CartItem) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(cartItems))
	for _, ci := range cartItems {
		if ci.ProductID == "" || ci.Quantity < 1 {
			return nil, domainErrors.ErrInvalidCartItem
		}
		name := ci.ProductName
		if name == "" {
			name = defaultProductName
		}
		subtotal := decimal.NewFromFloat(ci.Price).Mul(decimal.NewFromInt(int64(ci.Quantity)))
		items = append(items, model.OrderItem{
			ProductID:   ci.ProductID,
			ProductName: name,
			Quantity:    ci.Quantity,
			Price:       ci.Price,
			Subtotal:    subtotal.InexactFloat64(),
		})
	}
	return items, nil
}

// Cancel moves the caller's pending order to cancelled.
func (u *OrderUseCase) Cancel(ctx context.Context, id, userID string) (*model.Order, error) {
	order, err := u.orders.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending {
		return nil, domainErrors.ErrOrderNotCancellable
	}

	expected := model.OrderStatusPending
	updated, err := u.orders.UpdateStatus(ctx, id, model.OrderStatusCancelled, &expected)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrOrderNotCancellable
		}
		return nil, err
	}

	u.statusChanged(ctx, updated, model.OrderStatusPending)
	return updated, nil
}

// UpdateStatus sets any known status on an existing order. Prior state is not checked.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, domainErrors.ErrInvalidStatus
	}

	updated, err := u.orders.UpdateStatus(ctx, id, status, nil)
	if err != nil {
		return nil, err
	}

	u.statusChanged(ctx, updated, "")
	return updated, nil
}

func (u *OrderUseCase) statusChanged(ctx context.Context, order *model.Order, previous model.OrderStatus) {
	u.metrics.StatusChanged(string(order.Status))
	u.publish(ctx, model.OrderEvent{
		Type:           model.OrderEventStatusChanged,
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		Status:         order.Status,
		PreviousStatus: previous,
		TotalAmount:    order.TotalAmount,
		OccurredAt:     u.now().UTC(),
	})
}

func (u *OrderUseCase) publish(ctx context.Context, event model.OrderEvent) {
	if err := u.events.Publish(ctx, event); err != nil {
		u.logger.WarnContext(ctx, "failed to publish order event",
			slog.String("type", string(event.Type)),
			slog.String("order_number", event.OrderNumber),
			slog.String("error", err.Error()),
		)
		u.metrics.SideEffectFailed(metrics.OperationPublish)
	}
}
