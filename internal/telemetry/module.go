package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/orderservice/internal/config"
)

// Module installs the tracer provider and flushes it on shutdown.
var Module = fx.Options(
	fx.Provide(newTracerProvider),
	fx.Provide(func(tp *sdktrace.TracerProvider) trace.TracerProvider { return tp }),
	fx.Invoke(registerLifecycle),
)

type tracerParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
}

func newTracerProvider(p tracerParams) (*sdktrace.TracerProvider, error) {
	return NewTracerProvider(p.Ctx, config.ServiceName, p.Config.OTLPEndpoint)
}

func registerLifecycle(lc fx.Lifecycle, tp *sdktrace.TracerProvider) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
}
