package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvent struct {
	BaseDomainEvent
}

func TestNewOutboxEntry_CopiesEventMetadata(t *testing.T) {
	aggID := uuid.New()
	evt := &stubEvent{BaseDomainEvent: NewBaseDomainEvent("OrderPlaced", "Order", aggID)}

	entry := NewOutboxEntry(evt, []byte(`{"x":1}`))

	assert.Equal(t, evt.EventID(), entry.EventID)
	assert.Equal(t, "OrderPlaced", entry.EventType)
	assert.Equal(t, aggID, entry.AggregateID)
	assert.Equal(t, "Order", entry.AggregateType)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
}

func TestOutboxEntry_Lifecycle(t *testing.T) {
	t.Run("pending entry can be claimed and sent", func(t *testing.T) {
		entry := &OutboxEntry{ID: uuid.New(), Status: OutboxStatusPending, MaxRetries: 3}
		require.NoError(t, entry.MarkProcessing())
		assert.Equal(t, OutboxStatusProcessing, entry.Status)

		entry.MarkSent()
		assert.Equal(t, OutboxStatusSent, entry.Status)
		assert.NotNil(t, entry.ProcessedAt)
	})

	t.Run("sent entry cannot be claimed again", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusSent}
		assert.Error(t, entry.MarkProcessing())
	})

	t.Run("failure schedules a retry with backoff", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusProcessing, MaxRetries: 3}
		entry.MarkFailed("broker down")

		assert.Equal(t, OutboxStatusFailed, entry.Status)
		assert.True(t, entry.CanRetry())
		require.NotNil(t, entry.NextRetryAt)
		assert.True(t, entry.NextRetryAt.After(time.Now()))
	})

	t.Run("exhausted retries move entry to dead letter", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusProcessing, RetryCount: 2, MaxRetries: 3}
		entry.MarkFailed("still down")

		assert.True(t, entry.IsDead())
		assert.False(t, entry.CanRetry())

		require.NoError(t, entry.ResetForRetry())
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Zero(t, entry.RetryCount)
	})
}
