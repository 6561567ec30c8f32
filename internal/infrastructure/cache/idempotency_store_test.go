package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIdempotencyStore(t *testing.T) {
	mr, client := setupMiniredis(t)
	store := NewRedisIdempotencyStore(client, "")
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh)

	seen, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)
	assert.True(t, mr.Exists(DefaultIdempotencyKeyPrefix+"evt-1"))

	mr.FastForward(2 * time.Hour)
	seen, err = store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen, "records expire with their TTL")
}

func TestRedisIdempotencyStore_OneWinnerUnderContention(t *testing.T) {
	_, client := setupMiniredis(t)
	store := NewRedisIdempotencyStore(client, "test:")

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := store.MarkProcessed(context.Background(), "evt-race", time.Minute); err == nil && ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, fresh)

	now = now.Add(2 * time.Minute)
	seen, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	fresh, err = store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh, "an expired record can be taken again")
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < sweepEvery-1; i++ {
		_, err := store.MarkProcessed(ctx, time.Duration(i).String(), time.Second)
		require.NoError(t, err)
	}
	now = now.Add(time.Minute)
	_, err := store.MarkProcessed(ctx, "last", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Size())
	require.NoError(t, store.Close())
	assert.Equal(t, 0, store.Size())
}
