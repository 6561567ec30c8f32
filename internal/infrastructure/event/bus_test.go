package event

import (
	"context"
	"errors"
	"testing"

	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	typed := &recordingHandler{types: []string{cart.EventTypeCartCleared}}
	other := &recordingHandler{types: []string{order.EventTypeOrderPlaced}}
	all := &recordingHandler{}
	bus.Subscribe(typed)
	bus.Subscribe(other)
	bus.Subscribe(all)

	evt := clearedEvent(t)
	require.NoError(t, bus.Publish(context.Background(), evt))

	assert.Len(t, typed.received(), 1)
	assert.Empty(t, other.received())
	assert.Len(t, all.received(), 1)
	assert.Same(t, evt, typed.received()[0])
}

func TestInMemoryEventBus_FailingHandlersDoNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{err: errors.New("down")}
	panicking := &recordingHandler{panics: true}
	healthy := &recordingHandler{}
	bus.Subscribe(failing, cart.EventTypeCartCleared)
	bus.Subscribe(panicking, cart.EventTypeCartCleared)
	bus.Subscribe(healthy, cart.EventTypeCartCleared)

	err := bus.Publish(context.Background(), clearedEvent(t))

	assert.NoError(t, err)
	assert.Len(t, healthy.received(), 1)
	assert.Equal(t, int64(2), bus.Failures())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{}
	bus.Subscribe(h, cart.EventTypeCartCleared, cart.EventTypeCartItemAdded)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), clearedEvent(t)))

	assert.Empty(t, h.received())
	assert.Equal(t, 0, bus.registry.Count())
}

func TestHandlerRegistry_Count(t *testing.T) {
	r := NewHandlerRegistry()
	a := &recordingHandler{}
	b := &recordingHandler{}
	r.Register(a, "A", "B")
	r.Register(b)

	assert.Equal(t, 2, r.Count())
	assert.Len(t, r.GetHandlers("A"), 2)
	assert.Len(t, r.GetHandlers("C"), 1)
}
