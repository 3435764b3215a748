package cart

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/orderservice/internal/adapter/downstream"
	"github.com/polkiloo/orderservice/internal/config"
	"github.com/polkiloo/orderservice/internal/metrics"
)

// Module exposes the cart service client to the fx graph.
var Module = fx.Provide(newProvider)

type providerParams struct {
	fx.In

	Config         *config.Config
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider `optional:"true"`
}

func newProvider(p providerParams) (Provider, error) {
	return NewHTTPClient(p.Config.CartServiceURL, downstream.Options{
		Timeout:        p.Config.DownstreamTimeout,
		Logger:         p.Logger,
		Metrics:        p.Metrics,
		TracerProvider: p.TracerProvider,
	})
}
