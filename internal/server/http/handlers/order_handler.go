package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderservice/internal/domain/errors"
	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/server/http/dto"
	"github.com/polkiloo/orderservice/internal/server/http/middleware"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgOrderNotFound = "Order not found"
)

// OrderHandler manages customer order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders/create.
func (h *OrderHandler) Create(c *gin.Context, rc middleware.RequestContext) dto.Result {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return dto.Fail(http.StatusBadRequest, msgInvalidBody)
	}

	input := model.CheckoutInput{
		ShippingAddress: model.ShippingAddress(req.ShippingAddress),
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
		Notes:           req.Notes,
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), rc.Identity, rc.Token, input)
	if err != nil {
		var cartErr *domainErrors.CartError
		switch {
		case errors.As(err, &cartErr):
			return dto.Fail(http.StatusBadRequest, "Failed to retrieve cart: "+cartErr.Err.Error())
		case errors.Is(err, domainErrors.ErrEmptyCart):
			return dto.Fail(http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, domainErrors.ErrInvalidPaymentMethod):
			return dto.Fail(http.StatusBadRequest, "Invalid payment method")
		case errors.Is(err, domainErrors.ErrInvalidCartItem):
			return dto.Fail(http.StatusBadRequest, "Cart contains an invalid item")
		default:
			return dto.Internal(err)
		}
	}

	return dto.OK(http.StatusCreated, dto.OrderResponse{
		Success: true,
		Message: "Order created successfully",
		Order:   toOrder(*order),
	})
}

// MyOrders handles GET /api/orders/my-orders.
func (h *OrderHandler) MyOrders(c *gin.Context, rc middleware.RequestContext) dto.Result {
	page := model.ParsePagination(c.Query("page"), c.Query("limit"))
	status := model.OrderStatus(c.Query("status"))

	result, err := h.facade.MyOrders(c.Request.Context(), rc.Identity.ID, status, page)
	if err != nil {
		return dto.Internal(err)
	}
	return dto.OK(http.StatusOK, toOrderList(result))
}

// Get handles GET /api/orders/:orderId.
func (h *OrderHandler) Get(c *gin.Context, rc middleware.RequestContext) dto.Result {
	order, err := h.facade.Order(c.Request.Context(), c.Param("orderId"), rc.Identity.ID)
	return singleOrder(order, err)
}

// GetByNumber handles GET /api/orders/number/:orderNumber.
func (h *OrderHandler) GetByNumber(c *gin.Context, rc middleware.RequestContext) dto.Result {
	order, err := h.facade.OrderByNumber(c.Request.Context(), c.Param("orderNumber"), rc.Identity.ID)
	return singleOrder(order, err)
}

// Cancel handles PATCH /api/orders/:orderId/cancel.
func (h *OrderHandler) Cancel(c *gin.Context, rc middleware.RequestContext) dto.Result {
	order, err := h.facade.CancelOrder(c.Request.Context(), c.Param("orderId"), rc.Identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			return dto.Fail(http.StatusNotFound, msgOrderNotFound)
		case errors.Is(err, domainErrors.ErrOrderNotCancellable):
			return dto.Fail(http.StatusBadRequest, "Only pending orders can be cancelled")
		default:
			return dto.Internal(err)
		}
	}

	return dto.OK(http.StatusOK, dto.OrderResponse{
		Success: true,
		Message: "Order cancelled successfully",
		Order:   toOrder(*order),
	})
}

func singleOrder(order *model.Order, err error) dto.Result {
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return dto.Fail(http.StatusNotFound, msgOrderNotFound)
		}
		return dto.Internal(err)
	}
	return dto.OK(http.StatusOK, dto.OrderResponse{Success: true, Order: toOrder(*order)})
}

func toOrder(order model.Order) dto.Order {
	items := make([]dto.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItem(item))
	}
	return dto.Order{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		UserEmail:       order.UserEmail,
		UserName:        order.UserName,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		TotalItems:      order.TotalItems,
		Status:          string(order.Status),
		ShippingAddress: dto.ShippingAddress(order.ShippingAddress),
		PaymentMethod:   string(order.PaymentMethod),
		PaymentStatus:   string(order.PaymentStatus),
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toOrderList(page *model.OrderPage) dto.OrderListResponse {
	orders := make([]dto.Order, 0, len(page.Orders))
	for _, o := range page.Orders {
		orders = append(orders, toOrder(o))
	}
	return dto.OrderListResponse{
		Success:     true,
		Orders:      orders,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		Total:       page.Total,
	}
}
