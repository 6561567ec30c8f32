// Package cart holds the per-user shopping cart aggregate.
package cart

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CartItem is one product line of a cart. The price is captured when the
// product is first added and is not refreshed on later adds.
type CartItem struct {
	ID           uuid.UUID       `json:"id"`
	CartID       uuid.UUID       `json:"cart_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	VendorID     uuid.UUID       `json:"vendor_id"`
	VendorName   string          `json:"vendor_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LineTotal returns UnitPrice * Quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Snapshot returns the product snapshot captured by this line
func (i CartItem) Snapshot() catalog.ProductSnapshot {
	return catalog.ProductSnapshot{
		ProductID:  i.ProductID,
		Name:       i.ProductName,
		Image:      i.ProductImage,
		UnitPrice:  i.UnitPrice,
		VendorID:   i.VendorID,
		VendorName: i.VendorName,
	}
}

// Cart is the aggregate root for a user's basket. There is exactly one cart
// per user; it is created lazily and reused after being emptied.
type Cart struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID      `json:"user_id"`
	Items      []CartItem     `json:"items"`
	CouponCode string         `json:"coupon_code,omitempty"`
	TotalItems int            `json:"total_items"`
	Totals     pricing.Totals `json:"totals"`
}

// NewCart creates an empty cart for userID
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
		Totals:            pricing.ZeroTotals(),
	}, nil
}

// AddItem adds quantity of the product. An existing line for the same product
// has its quantity increased and keeps its original price.
func (c *Cart) AddItem(product catalog.ProductSnapshot, quantity int, calc pricing.TotalsCalculator) (*CartItem, error) {
	if err := pricing.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if product.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	now := time.Now()
	idx := c.indexOfProduct(product.ProductID)
	if idx >= 0 {
		if err := pricing.ValidateQuantity(c.Items[idx].Quantity + quantity); err != nil {
			return nil, err
		}
		c.Items[idx].Quantity += quantity
		c.Items[idx].UpdatedAt = now
	} else {
		c.Items = append(c.Items, CartItem{
			ID:           uuid.New(),
			CartID:       c.ID,
			ProductID:    product.ProductID,
			ProductName:  product.Name,
			ProductImage: product.Image,
			VendorID:     product.VendorID,
			VendorName:   product.VendorName,
			UnitPrice:    product.UnitPrice,
			Quantity:     quantity,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		idx = len(c.Items) - 1
	}

	c.Recalculate(calc)
	item := c.Items[idx]
	c.AddDomainEvent(NewCartItemAddedEvent(c, item, quantity))
	return &item, nil
}

// UpdateItemQuantity replaces the quantity of a line
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int, calc pricing.TotalsCalculator) error {
	if err := pricing.ValidateQuantity(quantity); err != nil {
		return err
	}
	idx := c.indexOfItem(itemID)
	if idx < 0 {
		return ErrCartItemNotFound
	}
	c.Items[idx].Quantity = quantity
	c.Items[idx].UpdatedAt = time.Now()
	c.Recalculate(calc)
	c.AddDomainEvent(NewCartUpdatedEvent(c, ChangeQuantity))
	return nil
}

// RemoveItem deletes a line
func (c *Cart) RemoveItem(itemID uuid.UUID, calc pricing.TotalsCalculator) error {
	idx := c.indexOfItem(itemID)
	if idx < 0 {
		return ErrCartItemNotFound
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.Recalculate(calc)
	c.AddDomainEvent(NewCartUpdatedEvent(c, ChangeItemRemoved))
	return nil
}

// Clear empties the cart and drops any applied coupon
func (c *Cart) Clear(reason string, calc pricing.TotalsCalculator) {
	c.Items = make([]CartItem, 0)
	c.CouponCode = ""
	c.Recalculate(calc)
	c.AddDomainEvent(NewCartClearedEvent(c, reason))
}

// ApplyCoupon stores a coupon code and reprices the cart
func (c *Cart) ApplyCoupon(code string, calc pricing.TotalsCalculator) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return shared.NewDomainError("INVALID_COUPON", "Coupon code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_COUPON", "Coupon code cannot exceed 50 characters")
	}
	c.CouponCode = code
	c.Recalculate(calc)
	c.AddDomainEvent(NewCartUpdatedEvent(c, ChangeCouponApplied))
	return nil
}

// RemoveCoupon drops the coupon code and reprices the cart
func (c *Cart) RemoveCoupon(calc pricing.TotalsCalculator) {
	c.CouponCode = ""
	c.Recalculate(calc)
	c.AddDomainEvent(NewCartUpdatedEvent(c, ChangeCouponRemoved))
}

// Recalculate derives TotalItems and Totals from the current lines and coupon
func (c *Cart) Recalculate(calc pricing.TotalsCalculator) {
	lines := make([]pricing.Line, len(c.Items))
	total := 0
	for i, item := range c.Items {
		lines[i] = pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
		total += item.Quantity
	}
	c.TotalItems = total
	c.Totals = calc.ComputeTotals(lines, c.CouponCode)
	c.Touch()
}

// FindItem returns the line with itemID
func (c *Cart) FindItem(itemID uuid.UUID) (*CartItem, bool) {
	idx := c.indexOfItem(itemID)
	if idx < 0 {
		return nil, false
	}
	return &c.Items[idx], true
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IsOwnedBy reports whether the cart belongs to userID
func (c *Cart) IsOwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

func (c *Cart) indexOfItem(itemID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOfProduct(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ErrCartItemNotFound is returned when a line is not part of the cart
var ErrCartItemNotFound = shared.NotFound("Cart item not found")
