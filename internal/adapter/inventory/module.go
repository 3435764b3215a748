package inventory

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/orderservice/internal/adapter/downstream"
	"github.com/polkiloo/orderservice/internal/config"
	"github.com/polkiloo/orderservice/internal/metrics"
)

// Module exposes the product service stock client to the fx graph.
var Module = fx.Provide(newStockAdjuster)

type adjusterParams struct {
	fx.In

	Config         *config.Config
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider `optional:"true"`
}

func newStockAdjuster(p adjusterParams) (StockAdjuster, error) {
	return NewHTTPClient(p.Config.ProductServiceURL, downstream.Options{
		Timeout:        p.Config.DownstreamTimeout,
		Logger:         p.Logger,
		Metrics:        p.Metrics,
		TracerProvider: p.TracerProvider,
	})
}
