package cart

import (
	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCart = "Cart"

// Event type constants
const (
	EventTypeCartItemAdded = "CartItemAdded"
	EventTypeCartUpdated   = "CartUpdated"
	EventTypeCartCleared   = "CartCleared"
)

// Changes recorded on CartUpdatedEvent
const (
	ChangeQuantity      = "QUANTITY"
	ChangeItemRemoved   = "ITEM_REMOVED"
	ChangeCouponApplied = "COUPON_APPLIED"
	ChangeCouponRemoved = "COUPON_REMOVED"
)

// Reasons recorded on CartClearedEvent
const (
	ClearReasonUser     = "USER"
	ClearReasonCheckout = "CHECKOUT"
)

// CartItemAddedEvent is raised when a product is added to a cart
type CartItemAddedEvent struct {
	shared.BaseDomainEvent
	CartID    uuid.UUID       `json:"cart_id"`
	UserID    uuid.UUID       `json:"user_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Added     int             `json:"added"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// NewCartItemAddedEvent creates a new CartItemAddedEvent
func NewCartItemAddedEvent(c *Cart, item CartItem, added int) *CartItemAddedEvent {
	return &CartItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartItemAdded, AggregateTypeCart, c.ID),
		CartID:          c.ID,
		UserID:          c.UserID,
		ProductID:       item.ProductID,
		Added:           added,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
	}
}

// CartClearedEvent is raised when all lines are removed from a cart
type CartClearedEvent struct {
	shared.BaseDomainEvent
	CartID uuid.UUID `json:"cart_id"`
	UserID uuid.UUID `json:"user_id"`
	Reason string    `json:"reason"`
}

// NewCartClearedEvent creates a new CartClearedEvent
func NewCartClearedEvent(c *Cart, reason string) *CartClearedEvent {
	return &CartClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartCleared, AggregateTypeCart, c.ID),
		CartID:          c.ID,
		UserID:          c.UserID,
		Reason:          reason,
	}
}

// CartUpdatedEvent is raised when a line quantity, a removal or the coupon
// changes the cart without adding a product
type CartUpdatedEvent struct {
	shared.BaseDomainEvent
	CartID     uuid.UUID       `json:"cart_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Change     string          `json:"change"`
	TotalItems int             `json:"total_items"`
	Total      decimal.Decimal `json:"total"`
}

// NewCartUpdatedEvent creates a new CartUpdatedEvent
func NewCartUpdatedEvent(c *Cart, change string) *CartUpdatedEvent {
	return &CartUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartUpdated, AggregateTypeCart, c.ID),
		CartID:          c.ID,
		UserID:          c.UserID,
		Change:          change,
		TotalItems:      c.TotalItems,
		Total:           c.Totals.Total,
	}
}
