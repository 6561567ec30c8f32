package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
)

// OrderFilter narrows order listings
type OrderFilter struct {
	shared.Filter
	// Status limits results to one status when set
	Status *OrderStatus
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	// FindByUser lists the orders placed by a user, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter OrderFilter) ([]Order, int64, error)
	// FindByVendor lists the orders holding at least one line of a vendor, newest first
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter OrderFilter) ([]Order, int64, error)
	// Create inserts a new order and its items
	Create(ctx context.Context, order *Order) error
	// SaveWithLock persists status changes with an optimistic version check
	SaveWithLock(ctx context.Context, order *Order) error
}
