package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/multimart/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewStores_Disabled(t *testing.T) {
	stores := NewStores(context.Background(), config.RedisConfig{Enabled: false}, zap.NewNop())

	assert.Nil(t, stores.Client)
	assert.Nil(t, stores.CartCache)
	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	assert.NoError(t, stores.Close())
}

func TestNewStores_Unreachable(t *testing.T) {
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	stores := NewStores(context.Background(), cfg, zap.NewNop())

	assert.Nil(t, stores.CartCache)
	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
}

func TestNewStores_Connected(t *testing.T) {
	mr, _ := setupMiniredis(t)
	cfg := config.RedisConfig{Enabled: true, Host: mr.Host(), Port: mustPort(t, mr.Port()), CartTTL: time.Minute}

	stores := NewStores(context.Background(), cfg, zap.NewNop())

	require.NotNil(t, stores.Client)
	assert.IsType(t, &RedisCartCache{}, stores.CartCache)
	assert.IsType(t, &RedisIdempotencyStore{}, stores.Idempotency)
	assert.NoError(t, stores.Close())
}

func mustPort(t *testing.T, port string) int {
	t.Helper()
	n, err := strconv.Atoi(port)
	require.NoError(t, err)
	return n
}
