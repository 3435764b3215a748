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

// AdminHandler manages administrative order endpoints.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// All handles GET /api/orders/admin/all.
func (h *AdminHandler) All(c *gin.Context, _ middleware.RequestContext) dto.Result {
	page := model.ParsePagination(c.Query("page"), c.Query("limit"))
	status := model.OrderStatus(c.Query("status"))

	result, err := h.facade.AllOrders(c.Request.Context(), c.Query("userId"), status, page)
	if err != nil {
		return dto.Internal(err)
	}
	return dto.OK(http.StatusOK, toOrderList(result))
}

// UpdateStatus handles PATCH /api/orders/admin/:orderId/status.
func (h *AdminHandler) UpdateStatus(c *gin.Context, _ middleware.RequestContext) dto.Result {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return dto.Fail(http.StatusBadRequest, msgInvalidBody)
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), model.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidStatus):
			return dto.Fail(http.StatusBadRequest, "Invalid status")
		case errors.Is(err, domainErrors.ErrNotFound):
			return dto.Fail(http.StatusNotFound, msgOrderNotFound)
		default:
			return dto.Internal(err)
		}
	}

	return dto.OK(http.StatusOK, dto.OrderResponse{
		Success: true,
		Message: "Order status updated successfully",
		Order:   toOrder(*order),
	})
}

// Stats handles GET /api/orders/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context, _ middleware.RequestContext) dto.Result {
	stats, err := h.facade.OrderStats(c.Request.Context())
	if err != nil {
		return dto.Internal(err)
	}

	byStatus := make([]dto.StatusStat, 0, len(stats.ByStatus))
	for _, s := range stats.ByStatus {
		byStatus = append(byStatus, dto.StatusStat{
			Status:      string(s.Status),
			Count:       s.Count,
			TotalAmount: s.TotalAmount,
		})
	}

	return dto.OK(http.StatusOK, dto.StatsResponse{
		Success: true,
		Stats: dto.Stats{
			TotalOrders:  stats.TotalOrders,
			TotalRevenue: stats.TotalRevenue,
			ByStatus:     byStatus,
		},
	})
}
