package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBroker struct {
	mu   sync.Mutex
	sent []*shared.OutboxEntry
	err  error
}

func (b *fakeBroker) Send(_ context.Context, entry *shared.OutboxEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.sent = append(b.sent, entry)
	return nil
}

type processorFixture struct {
	repo      *GormOutboxRepository
	bus       *InMemoryEventBus
	broker    *fakeBroker
	handler   *recordingHandler
	processor *OutboxProcessor
	s         *EventSerializer
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	f := &processorFixture{
		repo:    NewGormOutboxRepository(newOutboxDB(t)),
		bus:     NewInMemoryEventBus(zap.NewNop()),
		broker:  &fakeBroker{},
		handler: &recordingHandler{},
		s:       newSerializer(),
	}
	f.bus.Subscribe(f.handler)
	f.processor = NewOutboxProcessor(f.repo, f.bus, f.broker, f.s, DefaultOutboxProcessorConfig(), zap.NewNop())
	return f
}

func (f *processorFixture) enqueue(t *testing.T, evt shared.DomainEvent) *shared.OutboxEntry {
	t.Helper()
	entry := outboxEntry(t, f.s, evt)
	require.NoError(t, f.repo.Save(context.Background(), entry))
	return entry
}

func TestOutboxProcessor_RelaysToBrokerAndBus(t *testing.T) {
	f := newProcessorFixture(t)
	evt := clearedEvent(t)
	entry := f.enqueue(t, evt)

	f.processor.processBatch(context.Background())

	require.Len(t, f.broker.sent, 1)
	assert.Equal(t, entry.EventID, f.broker.sent[0].EventID)
	require.Len(t, f.handler.received(), 1)
	got := f.handler.received()[0].(*cart.CartClearedEvent)
	assert.Equal(t, evt.UserID, got.UserID)

	stored, err := f.repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)
}

func TestOutboxProcessor_BrokerFailureSchedulesRetry(t *testing.T) {
	f := newProcessorFixture(t)
	f.broker.err = ErrBrokerUnavailable
	entry := f.enqueue(t, clearedEvent(t))

	f.processor.processBatch(context.Background())

	assert.Empty(t, f.handler.received(), "bus is not reached before the broker accepts")
	stored, err := f.repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	require.NotNil(t, stored.NextRetryAt)

	f.broker.err = nil
	due, err := f.repo.FindRetryable(context.Background(), time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	f.processor.processEntries(context.Background(), due)

	stored, err = f.repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
	assert.Len(t, f.handler.received(), 1)
}

func TestOutboxProcessor_UnknownEventType(t *testing.T) {
	f := newProcessorFixture(t)
	entry := shared.NewOutboxEntry(clearedEvent(t), []byte(`{}`))
	entry.EventType = "Retired"
	require.NoError(t, f.repo.Save(context.Background(), entry))

	f.processor.processBatch(context.Background())

	stored, err := f.repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Contains(t, stored.LastError, "unknown event type")
	assert.Empty(t, f.broker.sent)
}

func TestOutboxProcessor_WithoutBroker(t *testing.T) {
	f := newProcessorFixture(t)
	f.processor = NewOutboxProcessor(f.repo, f.bus, nil, f.s, DefaultOutboxProcessorConfig(), zap.NewNop())
	f.enqueue(t, clearedEvent(t))

	f.processor.processBatch(context.Background())

	assert.Len(t, f.handler.received(), 1)
}

func TestOutboxProcessor_HandlerErrorStillMarksSent(t *testing.T) {
	f := newProcessorFixture(t)
	f.handler.err = errors.New("cache down")
	entry := f.enqueue(t, clearedEvent(t))

	f.processor.processBatch(context.Background())

	stored, err := f.repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	f := newProcessorFixture(t)
	cfg := DefaultOutboxProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.CleanupEnabled = false
	f.processor = NewOutboxProcessor(f.repo, f.bus, f.broker, f.s, cfg, zap.NewNop())
	f.enqueue(t, clearedEvent(t))

	require.NoError(t, f.processor.Start(context.Background()))
	assert.Eventually(t, func() bool { return len(f.handler.received()) == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, f.processor.Stop(ctx))
}

func TestOutboxProcessorConfigFrom(t *testing.T) {
	cfg := OutboxProcessorConfigFrom(config.EventConfig{
		BatchSize:        25,
		PollInterval:     time.Second,
		CleanupEnabled:   true,
		CleanupRetention: time.Hour,
	})

	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.True(t, cfg.CleanupEnabled)
	assert.Equal(t, time.Hour, cfg.CleanupRetention)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)

	defaults := OutboxProcessorConfigFrom(config.EventConfig{})
	assert.Equal(t, 100, defaults.BatchSize)
	assert.False(t, defaults.CleanupEnabled)
}
