package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/orderservice/internal/config"
	"github.com/polkiloo/orderservice/internal/metrics"
	"github.com/polkiloo/orderservice/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewOrderFacade,
		newHTTPServer,
		newStockUpdater,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config         *config.Config
	Router         *gin.Engine
	TracerProvider trace.TracerProvider `optional:"true"`
}

func newHTTPServer(p serverParams) *http.Server {
	var handler http.Handler = p.Router
	if p.TracerProvider != nil {
		handler = otelhttp.NewHandler(p.Router, config.ServiceName,
			otelhttp.WithTracerProvider(p.TracerProvider),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: handler,
	}
}

type workerParams struct {
	fx.In

	Adjuster worker.StockAdjuster
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

func newStockUpdater(p workerParams) *worker.StockUpdater {
	return worker.NewStockUpdater(
		p.Adjuster,
		p.Config.StockWorkers,
		p.Config.StockQueueSize,
		p.Config.DownstreamTimeout,
		p.Logger,
		p.Metrics,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.StockUpdater
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting order service", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Worker.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("order service stopped")
			return nil
		},
	})
}
