package cache

import (
	"context"

	appcart "github.com/multimart/backend/internal/application/cart"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the Redis-backed components of the service. With Redis
// disabled or unreachable, CartCache is nil (carts are read from the
// database) and Idempotency falls back to the in-memory store.
type Stores struct {
	Client      *redis.Client
	CartCache   appcart.Cache
	Idempotency shared.IdempotencyStore
}

// NewStores connects to Redis when enabled and builds the stores on top of it
func NewStores(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Stores {
	if !cfg.Enabled {
		logger.Info("redis disabled, using in-memory idempotency store and no cart cache")
		return &Stores{Idempotency: NewInMemoryIdempotencyStore()}
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory idempotency store and no cart cache",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return &Stores{Idempotency: NewInMemoryIdempotencyStore()}
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr()))
	return NewStoresWithClient(client, cfg)
}

// NewStoresWithClient builds the stores on an existing client
func NewStoresWithClient(client *redis.Client, cfg config.RedisConfig) *Stores {
	return &Stores{
		Client:      client,
		CartCache:   NewRedisCartCache(client, cfg.CartTTL),
		Idempotency: NewRedisIdempotencyStore(client, ""),
	}
}

// Close releases the Redis connection, if any
func (s *Stores) Close() error {
	if err := s.Idempotency.Close(); err != nil {
		return err
	}
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}
