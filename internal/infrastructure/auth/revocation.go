package auth

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRevocationPrefix is where the identity service records revoked token ids
const DefaultRevocationPrefix = "token:revoked:"

// RevocationList reports tokens revoked before their expiry (logout)
type RevocationList interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationList reads revoked token ids from Redis
type RedisRevocationList struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisRevocationList creates a revocation list on an existing client
func NewRedisRevocationList(client redis.UniversalClient) *RedisRevocationList {
	return &RedisRevocationList{client: client, keyPrefix: DefaultRevocationPrefix}
}

// IsRevoked reports whether jti has been revoked
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := l.client.Exists(ctx, l.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
