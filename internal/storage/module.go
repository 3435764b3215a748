package storage

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/orderservice/internal/config"
	"github.com/polkiloo/orderservice/internal/domain/repository"
	"github.com/polkiloo/orderservice/internal/storage/mongodb"
	"github.com/polkiloo/orderservice/internal/storage/postgres"
)

// Module provides the order repository for the backend named by the DSN scheme.
var Module = fx.Provide(newOrderRepository)

type repositoryParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Ctx       context.Context
	Config    *config.Config
	Logger    *slog.Logger
}

var (
	connectPostgres = postgres.New
	connectMongo    = mongodb.Connect
)

// IsMongoURI reports whether dsn targets MongoDB rather than PostgreSQL.
func IsMongoURI(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}

func newOrderRepository(p repositoryParams) (repository.OrderRepository, error) {
	if IsMongoURI(p.Config.DatabaseURI) {
		st, err := connectMongo(p.Ctx, p.Config.DatabaseURI, p.Config.DatabaseName, p.Logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: st.Close,
		})
		return st.Orders(), nil
	}

	st, err := connectPostgres(p.Ctx, p.Config.DatabaseURI, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			st.Close()
			return nil
		},
	})
	return st.Orders(), nil
}
