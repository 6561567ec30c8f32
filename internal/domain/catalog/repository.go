package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDs returns the products found among ids, keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Product, error)
	// Create inserts a new product
	Create(ctx context.Context, product *Product) error
	// SaveWithLock updates a product whose stored version still matches.
	// A missing row is NOT_FOUND and a newer version is CONCURRENT_MODIFICATION.
	SaveWithLock(ctx context.Context, product *Product) error
	// DeleteWithLock removes a product under the same version rule
	DeleteWithLock(ctx context.Context, product *Product) error
}

// CategoryRepository defines the interface for category and subcategory lookups
type CategoryRepository interface {
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*Subcategory, error)
	SaveCategory(ctx context.Context, category *Category) error
	SaveSubcategory(ctx context.Context, subcategory *Subcategory) error
}

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	// FindByUserID finds the vendor account of a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Vendor, error)
	// FindByIDs returns the vendors found among ids, keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Vendor, error)
	Save(ctx context.Context, vendor *Vendor) error
}

// CounterRepository applies product counter adjustments atomically.
// An adjustment that would make a counter negative fails with COUNTER_UNDERFLOW
// and a missing target fails with NOT_FOUND.
type CounterRepository interface {
	Apply(ctx context.Context, adjustments ...CounterAdjustment) error
}
