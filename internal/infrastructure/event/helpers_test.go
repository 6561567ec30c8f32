package event

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newOutboxDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.OutboxEntryModel{}))
	return db
}

func clearedEvent(t *testing.T) *cart.CartClearedEvent {
	t.Helper()
	c, err := cart.NewCart(uuid.New())
	require.NoError(t, err)
	return cart.NewCartClearedEvent(c, cart.ClearReasonCheckout)
}

func newSerializer() *EventSerializer {
	s := NewEventSerializer()
	RegisterAllEvents(s)
	return s
}

func outboxEntry(t *testing.T, s *EventSerializer, evt shared.DomainEvent) *shared.OutboxEntry {
	t.Helper()
	payload, err := s.Serialize(evt)
	require.NoError(t, err)
	return shared.NewOutboxEntry(evt, payload)
}

// recordingHandler collects the events it receives
type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
	return h.err
}

func (h *recordingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.events...)
}
