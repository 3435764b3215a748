package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/orderservice/internal/adapter/cart"
	"github.com/polkiloo/orderservice/internal/adapter/events"
	"github.com/polkiloo/orderservice/internal/adapter/identity"
	"github.com/polkiloo/orderservice/internal/adapter/inventory"
	"github.com/polkiloo/orderservice/internal/app"
	"github.com/polkiloo/orderservice/internal/config"
	"github.com/polkiloo/orderservice/internal/logger"
	"github.com/polkiloo/orderservice/internal/metrics"
	"github.com/polkiloo/orderservice/internal/server/http/handlers"
	"github.com/polkiloo/orderservice/internal/server/http/router"
	"github.com/polkiloo/orderservice/internal/storage"
	"github.com/polkiloo/orderservice/internal/telemetry"
	"github.com/polkiloo/orderservice/internal/usecase"
	"github.com/polkiloo/orderservice/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		telemetry.Module,
		storage.Module,
		identity.Module,
		cart.Module,
		inventory.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(client cart.Provider) usecase.CartService { return client }),
		fx.Provide(func(p events.Publisher) usecase.EventPublisher { return p }),
		fx.Provide(func(u *worker.StockUpdater) usecase.StockScheduler { return u }),
		fx.Provide(func(client inventory.StockAdjuster) worker.StockAdjuster { return client }),
		fx.Provide(func(v identity.Verifier) app.IdentityVerifier { return v }),
		fx.Provide(func(f *app.OrderFacade) handlers.ServiceFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
