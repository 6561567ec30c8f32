package event

import (
	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/order"
)

// RegisterAllEvents registers every domain event the outbox can carry.
// An event missing here is written to the outbox but dead-letters on relay.
func RegisterAllEvents(serializer *EventSerializer) {
	// Cart
	serializer.Register(cart.EventTypeCartItemAdded, &cart.CartItemAddedEvent{})
	serializer.Register(cart.EventTypeCartUpdated, &cart.CartUpdatedEvent{})
	serializer.Register(cart.EventTypeCartCleared, &cart.CartClearedEvent{})

	// Order
	serializer.Register(order.EventTypeOrderPlaced, &order.OrderPlacedEvent{})
	serializer.Register(order.EventTypeOrderStatusChanged, &order.OrderStatusChangedEvent{})
	serializer.Register(order.EventTypeOrderCancelled, &order.OrderCancelledEvent{})

	// Catalog
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})
}
