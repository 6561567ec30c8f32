package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable item listed by a vendor
type Product struct {
	shared.BaseAggregateRoot
	VendorID      uuid.UUID
	CategoryID    uuid.UUID
	SubcategoryID *uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal
	Images        []string
	Inventory     int
	SKU           string
}

// ProductDetails is the vendor-editable part of a product
type ProductDetails struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	Images        []string
	Inventory     int
	SKU           string
	CategoryID    uuid.UUID
	SubcategoryID *uuid.UUID
}

// Placement is where a product is filed in the category tree
type Placement struct {
	CategoryID    uuid.UUID
	SubcategoryID *uuid.UUID
}

// NewProduct creates a product owned by vendorID
func NewProduct(vendorID uuid.UUID, d ProductDetails) (*Product, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if err := validateDetails(d); err != nil {
		return nil, err
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorID:          vendorID,
	}
	p.applyDetails(d)

	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update replaces the editable details and returns the placement before the change
func (p *Product) Update(d ProductDetails) (Placement, error) {
	if err := validateDetails(d); err != nil {
		return Placement{}, err
	}
	before := p.Placement()
	p.applyDetails(d)
	p.Touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p, before))
	return before, nil
}

// MarkDeleted records the deletion event; the row itself is removed by the repository
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

// Placement returns the current category placement
func (p *Product) Placement() Placement {
	return Placement{CategoryID: p.CategoryID, SubcategoryID: copyID(p.SubcategoryID)}
}

// FirstImage returns the primary image URL or "" when there is none
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Snapshot freezes the purchase-relevant fields of the product together with
// the vendor's display name
func (p *Product) Snapshot(vendor *Vendor) ProductSnapshot {
	s := ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.FirstImage(),
		UnitPrice: p.Price,
		VendorID:  p.VendorID,
	}
	if vendor != nil {
		s.VendorName = vendor.StoreName
	}
	return s
}

func (p *Product) applyDetails(d ProductDetails) {
	p.Name = strings.TrimSpace(d.Name)
	p.Description = d.Description
	p.Price = d.Price
	p.Images = append([]string(nil), d.Images...)
	p.Inventory = d.Inventory
	p.SKU = d.SKU
	p.CategoryID = d.CategoryID
	p.SubcategoryID = copyID(d.SubcategoryID)
}

func validateDetails(d ProductDetails) error {
	if strings.TrimSpace(d.Name) == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(d.Name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if d.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if d.Inventory < 0 {
		return shared.NewDomainError("INVALID_INVENTORY", "Inventory cannot be negative")
	}
	if d.CategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	return nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// ProductSnapshot is the denormalized copy of a product taken when it is put
// in a cart or an order, so later catalog edits do not rewrite history
type ProductSnapshot struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Image      string          `json:"image,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	VendorID   uuid.UUID       `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
}
