package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByUserID finds the cart of a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// FindItemOwner returns the user owning the cart that holds itemID
	FindItemOwner(ctx context.Context, itemID uuid.UUID) (uuid.UUID, error)
	// Save inserts a new cart together with its items
	Save(ctx context.Context, cart *Cart) error
	// SaveWithLock updates the cart with a version check and syncs its items
	SaveWithLock(ctx context.Context, cart *Cart) error
}
