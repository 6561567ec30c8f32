package catalog

import (
	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeProductUpdated = "ProductUpdated"
	EventTypeProductDeleted = "ProductDeleted"
)

// ProductCreatedEvent is raised when a vendor lists a new product
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID       `json:"product_id"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	CategoryID    uuid.UUID       `json:"category_id"`
	SubcategoryID *uuid.UUID      `json:"subcategory_id,omitempty"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		VendorID:        p.VendorID,
		CategoryID:      p.CategoryID,
		SubcategoryID:   copyID(p.SubcategoryID),
		Name:            p.Name,
		Price:           p.Price,
	}
}

// ProductUpdatedEvent is raised when product details change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID        uuid.UUID       `json:"product_id"`
	Price            decimal.Decimal `json:"price"`
	OldCategoryID    uuid.UUID       `json:"old_category_id"`
	NewCategoryID    uuid.UUID       `json:"new_category_id"`
	OldSubcategoryID *uuid.UUID      `json:"old_subcategory_id,omitempty"`
	NewSubcategoryID *uuid.UUID      `json:"new_subcategory_id,omitempty"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product, before Placement) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, p.ID),
		ProductID:        p.ID,
		Price:            p.Price,
		OldCategoryID:    before.CategoryID,
		NewCategoryID:    p.CategoryID,
		OldSubcategoryID: before.SubcategoryID,
		NewSubcategoryID: copyID(p.SubcategoryID),
	}
}

// ProductDeletedEvent is raised when a vendor removes a product
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	VendorID  uuid.UUID `json:"vendor_id"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(p *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		VendorID:        p.VendorID,
	}
}
