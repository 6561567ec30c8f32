package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOutboxRepository_SaveAndClaim(t *testing.T) {
	db := newOutboxDB(t)
	repo := NewGormOutboxRepository(db)
	s := newSerializer()
	ctx := context.Background()

	first := outboxEntry(t, s, clearedEvent(t))
	second := outboxEntry(t, s, clearedEvent(t))
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, repo.Save(ctx, second, first))

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, first.Payload, pending[0].Payload)

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	assert.Len(t, claimed, 2)
	for _, e := range claimed {
		assert.Equal(t, shared.OutboxStatusProcessing, e.Status)
	}

	again, err := repo.MarkProcessing(ctx, []uuid.UUID{first.ID})
	require.NoError(t, err)
	assert.Empty(t, again, "processing entries are not claimed twice")

	pending, err = repo.FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestGormOutboxRepository_RetryAndDeadLetter(t *testing.T) {
	db := newOutboxDB(t)
	repo := NewGormOutboxRepository(db)
	s := newSerializer()
	ctx := context.Background()

	retry := outboxEntry(t, s, clearedEvent(t))
	dead := outboxEntry(t, s, clearedEvent(t))
	require.NoError(t, repo.Save(ctx, retry, dead))

	retry.MarkFailed("broker down")
	require.NoError(t, repo.Update(ctx, retry))
	dead.MaxRetries = 1
	dead.MarkFailed("bad payload")
	require.NoError(t, repo.Update(ctx, dead))

	due, err := repo.FindRetryable(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, retry.ID, due[0].ID)
	assert.Equal(t, 1, due[0].RetryCount)
	assert.Equal(t, "broker down", due[0].LastError)

	notYet, err := repo.FindRetryable(ctx, time.Now().Add(-time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, notYet)

	deadEntries, total, err := repo.FindDead(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, dead.ID, deadEntries[0].ID)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusFailed])
	assert.Equal(t, int64(1), counts[shared.OutboxStatusDead])
}

func TestGormOutboxRepository_DeleteOlderThan(t *testing.T) {
	db := newOutboxDB(t)
	repo := NewGormOutboxRepository(db)
	s := newSerializer()
	ctx := context.Background()

	old := outboxEntry(t, s, clearedEvent(t))
	fresh := outboxEntry(t, s, clearedEvent(t))
	require.NoError(t, repo.Save(ctx, old, fresh))
	old.MarkSent()
	longAgo := time.Now().Add(-48 * time.Hour)
	old.ProcessedAt = &longAgo
	require.NoError(t, repo.Update(ctx, old))
	fresh.MarkSent()
	require.NoError(t, repo.Update(ctx, fresh))

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	_, err = repo.FindByID(ctx, old.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	kept, err := repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, kept.Status)
}
