package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

const keyPrefix = "storefront:state:"

type redisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis stores each scope under its own key. A zero ttl keeps keys forever.
func NewRedis(client *redis.Client, ttl time.Duration) Repository {
	return &redisRepo{client: client, ttl: ttl}
}

func (r *redisRepo) Load(ctx context.Context, scope string) ([]byte, error) {
	data, err := r.client.Get(ctx, keyPrefix+scope).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis get state: %w", err)
	}
	return data, nil
}

func (r *redisRepo) Save(ctx context.Context, scope string, blob []byte) error {
	if err := r.client.Set(ctx, keyPrefix+scope, blob, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

func (r *redisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
