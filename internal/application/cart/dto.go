package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=1000"`
}

// UpdateItemRequest represents a request to change the quantity of a cart line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=1000"`
}

// ApplyCouponRequest represents a request to apply a coupon code
type ApplyCouponRequest struct {
	CouponCode string `json:"coupon_code" binding:"required,min=1,max=50"`
}

// CartItemResponse represents one cart line in API responses
type CartItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	VendorID     uuid.UUID       `json:"vendor_id"`
	VendorName   string          `json:"vendor_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	UserID     uuid.UUID          `json:"user_id"`
	Items      []CartItemResponse `json:"items"`
	CouponCode string             `json:"coupon_code,omitempty"`
	TotalItems int                `json:"total_items"`
	Totals     pricing.Totals     `json:"totals"`
	Version    int                `json:"version"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// ToCartResponse converts a cart aggregate to its response form
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = CartItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			VendorID:     item.VendorID,
			VendorName:   item.VendorName,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			LineTotal:    item.LineTotal(),
		}
	}
	return CartResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      items,
		CouponCode: c.CouponCode,
		TotalItems: c.TotalItems,
		Totals:     c.Totals,
		Version:    c.Version,
		UpdatedAt:  c.UpdatedAt,
	}
}
