package identity

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/orderservice/internal/adapter/downstream"
	"github.com/polkiloo/orderservice/internal/config"
	"github.com/polkiloo/orderservice/internal/metrics"
)

// Module exposes the auth service verifier to the fx graph.
var Module = fx.Provide(newVerifier)

type verifierParams struct {
	fx.In

	Config         *config.Config
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider `optional:"true"`
}

func newVerifier(p verifierParams) (Verifier, error) {
	return NewHTTPClient(p.Config.AuthServiceURL, downstream.Options{
		Timeout:        p.Config.DownstreamTimeout,
		Logger:         p.Logger,
		Metrics:        p.Metrics,
		TracerProvider: p.TracerProvider,
	})
}
