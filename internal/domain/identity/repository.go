package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user lookups
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}

// AddressRepository defines the interface for the address book
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserAddress, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]UserAddress, error)
	Save(ctx context.Context, address *UserAddress) error
}
