package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
)

// Backend is an open Repository together with the connection behind it.
type Backend struct {
	Repository
	Name    string
	closers []func()
}

// Close releases the underlying connection.
func (b *Backend) Close() {
	for _, c := range b.closers {
		c()
	}
}

// OpenBackend connects the repository selected by cfg.StateBackend.
func OpenBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	logger = logging.OrNop(logger)

	switch cfg.StateBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory state backend; carts do not survive a restart")
		return &Backend{Repository: NewMemory(), Name: cfg.StateBackend}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Backend{
			Repository: NewRedis(client, cfg.StateTTL()),
			Name:       cfg.StateBackend,
			closers:    []func(){func() { _ = client.Close() }},
		}, nil

	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Backend{
			Repository: NewPostgres(pool, logger),
			Name:       cfg.StateBackend,
			closers:    []func(){pool.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}
