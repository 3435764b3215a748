package router

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/metrics"
	"github.com/polkiloo/orderservice/internal/server/http/dto"
	"github.com/polkiloo/orderservice/internal/server/http/handlers"
	"github.com/polkiloo/orderservice/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ServiceFacade, logger *slog.Logger, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic while serving request",
			slog.String("path", c.Request.URL.Path),
			slog.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Message: "Something went wrong!",
			Error:   fmt.Sprint(recovered),
		})
	}))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.RequestMetrics(m))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressOnly(), gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Route not found"})
	})

	healthHandler := handlers.NewHealthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)

	engine.GET("/health", handlers.Render(healthHandler.Live))
	engine.GET("/health/ready", handlers.Render(healthHandler.Ready))
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	orders := engine.Group("/api/orders")

	user := orders.Group("")
	user.Use(middleware.Authenticate(facade))
	user.POST("/create", handlers.WithRequestContext(orderHandler.Create))
	user.GET("/my-orders", handlers.WithRequestContext(orderHandler.MyOrders))
	user.GET("/number/:orderNumber", handlers.WithRequestContext(orderHandler.GetByNumber))
	user.GET("/:orderId", handlers.WithRequestContext(orderHandler.Get))
	user.PATCH("/:orderId/cancel", handlers.WithRequestContext(orderHandler.Cancel))

	admin := orders.Group("/admin")
	admin.Use(middleware.RequireRole(facade, model.RoleAdmin))
	admin.GET("/all", handlers.WithRequestContext(adminHandler.All))
	admin.PATCH("/:orderId/status", handlers.WithRequestContext(adminHandler.UpdateStatus))
	admin.GET("/stats", handlers.WithRequestContext(adminHandler.Stats))

	return engine
}
