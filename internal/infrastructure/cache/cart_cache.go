package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	appcart "github.com/multimart/backend/internal/application/cart"
	"github.com/redis/go-redis/v9"
)

// DefaultCartTTL is used when no TTL is configured
const DefaultCartTTL = 15 * time.Minute

// RedisCartCache stores rendered carts as JSON under cart:<userID>. Each write
// adds up to a fifth of the base TTL as jitter so entries written together do
// not expire together.
type RedisCartCache struct {
	client  redis.UniversalClient
	baseTTL time.Duration
}

// NewRedisCartCache creates a cart cache. A non-positive ttl selects DefaultCartTTL.
func NewRedisCartCache(client redis.UniversalClient, ttl time.Duration) *RedisCartCache {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &RedisCartCache{client: client, baseTTL: ttl}
}

// Get returns the cached cart or appcart.ErrCacheMiss
func (c *RedisCartCache) Get(ctx context.Context, userID uuid.UUID) (*appcart.CartResponse, error) {
	data, err := c.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, appcart.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart appcart.CartResponse
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cached cart failed: %w", err)
	}
	return &cart, nil
}

// Set stores cart with the base TTL plus jitter
func (c *RedisCartCache) Set(ctx context.Context, userID uuid.UUID, cart *appcart.CartResponse) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := c.client.Set(ctx, cartKey(userID), data, c.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes the cached cart; deleting a missing key is not an error
func (c *RedisCartCache) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *RedisCartCache) ttl() time.Duration {
	return c.baseTTL + time.Duration(rand.Int64N(int64(c.baseTTL/5)+1))
}

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", userID)
}

var _ appcart.Cache = (*RedisCartCache)(nil)
