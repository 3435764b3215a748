package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderservice/internal/config"
)

// Module provides the order event publisher.
var Module = fx.Provide(newPublisher)

func newPublisher(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("order events disabled: no kafka brokers configured")
		return NopPublisher{}
	}

	publisher := NewKafkaPublisher(NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderEventsTopic, logger))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	return publisher
}
