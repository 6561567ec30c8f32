package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductRequest represents a request to create or replace a product
type ProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Description   string          `json:"description" binding:"max=5000"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	Images        []string        `json:"images" binding:"omitempty,max=10,dive,url"`
	Inventory     int             `json:"inventory" binding:"min=0"`
	SKU           string          `json:"sku" binding:"max=64"`
	CategoryID    uuid.UUID       `json:"category_id" binding:"required"`
	SubcategoryID *uuid.UUID      `json:"subcategory_id"`
}

func (r ProductRequest) details() catalog.ProductDetails {
	return catalog.ProductDetails{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Images:        r.Images,
		Inventory:     r.Inventory,
		SKU:           r.SKU,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
	}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Images        []string        `json:"images"`
	Inventory     int             `json:"inventory"`
	InStock       bool            `json:"in_stock"`
	SKU           string          `json:"sku,omitempty"`
	CategoryID    uuid.UUID       `json:"category_id"`
	SubcategoryID *uuid.UUID      `json:"subcategory_id,omitempty"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product entity to its response form
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:            p.ID,
		VendorID:      p.VendorID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Images:        images,
		Inventory:     p.Inventory,
		InStock:       p.Inventory > 0,
		SKU:           p.SKU,
		CategoryID:    p.CategoryID,
		SubcategoryID: p.SubcategoryID,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
