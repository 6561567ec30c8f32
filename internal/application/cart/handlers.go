package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/shared"
)

// CacheEvictionHandler drops cached carts when relayed cart events arrive.
// Mutations already evict locally; this covers writes committed by other
// instances between their eviction and a concurrent read repopulating the entry.
type CacheEvictionHandler struct {
	cache Cache
}

// NewCacheEvictionHandler creates a handler evicting from cache
func NewCacheEvictionHandler(cache Cache) *CacheEvictionHandler {
	return &CacheEvictionHandler{cache: cache}
}

// EventTypes returns the cart events that change a cart's rendering
func (h *CacheEvictionHandler) EventTypes() []string {
	return []string{cart.EventTypeCartItemAdded, cart.EventTypeCartUpdated, cart.EventTypeCartCleared}
}

// Handle evicts the cart of the user named by the event
func (h *CacheEvictionHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	var userID uuid.UUID
	switch e := evt.(type) {
	case *cart.CartItemAddedEvent:
		userID = e.UserID
	case *cart.CartUpdatedEvent:
		userID = e.UserID
	case *cart.CartClearedEvent:
		userID = e.UserID
	default:
		return nil
	}
	return h.cache.Delete(ctx, userID)
}

var _ shared.EventHandler = (*CacheEvictionHandler)(nil)
