// Package order holds the order aggregate and its fulfillment state machine.
package order

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderNumberPrefix starts every human-readable order number
const OrderNumberPrefix = "ORD-"

// OrderItem is an immutable line of an order with the product and vendor
// details frozen at purchase time
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	ProductImage string
	VendorID     uuid.UUID
	VendorName   string
	UnitPrice    decimal.Decimal
	Quantity     int
}

// LineTotal returns UnitPrice * Quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineSpec is the input for one order line
type LineSpec struct {
	Product  catalog.ProductSnapshot
	Quantity int
}

// PlaceOrderParams carries everything needed to create an order
type PlaceOrderParams struct {
	OrderNumber     string
	UserID          uuid.UUID
	Lines           []LineSpec
	ShippingAddress valueobject.Address
	BillingAddress  valueobject.Address
	PaymentMethod   string
	CouponCode      string
	Notes           string
}

// Order is the aggregate root for a placed order. Items and totals are fixed
// at creation; afterwards only the status fields and UpdatedAt change.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	UserID          uuid.UUID
	Items           []OrderItem
	Status          OrderStatus
	ShippingAddress valueobject.Address
	BillingAddress  valueobject.Address
	PaymentMethod   string
	PaymentStatus   PaymentStatus
	Totals          pricing.Totals
	CouponCode      string
	Notes           string
}

// NewOrderNumber returns "ORD-" followed by 8 uppercase hex characters of a random UUID
func NewOrderNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return OrderNumberPrefix + strings.ToUpper(raw[:8])
}

// PlaceOrder builds a PENDING order from the given lines and prices it with calc.
// An empty OrderNumber gets a generated one.
func PlaceOrder(params PlaceOrderParams, calc pricing.TotalsCalculator) (*Order, error) {
	if params.UserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if len(params.Lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Cannot place an order without items")
	}
	if len(params.Notes) > 1000 {
		return nil, shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}
	number := params.OrderNumber
	if number == "" {
		number = NewOrderNumber()
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       number,
		UserID:            params.UserID,
		Status:            OrderStatusPending,
		ShippingAddress:   params.ShippingAddress,
		BillingAddress:    params.BillingAddress,
		PaymentMethod:     strings.TrimSpace(params.PaymentMethod),
		PaymentStatus:     PaymentStatusPending,
		CouponCode:        strings.ToUpper(strings.TrimSpace(params.CouponCode)),
		Notes:             params.Notes,
	}

	o.Items = make([]OrderItem, 0, len(params.Lines))
	priced := make([]pricing.Line, 0, len(params.Lines))
	for _, l := range params.Lines {
		if err := pricing.ValidateQuantity(l.Quantity); err != nil {
			return nil, err
		}
		if l.Product.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if l.Product.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		o.Items = append(o.Items, OrderItem{
			ID:           uuid.New(),
			OrderID:      o.ID,
			ProductID:    l.Product.ProductID,
			ProductName:  l.Product.Name,
			ProductImage: l.Product.Image,
			VendorID:     l.Product.VendorID,
			VendorName:   l.Product.VendorName,
			UnitPrice:    l.Product.UnitPrice,
			Quantity:     l.Quantity,
		})
		priced = append(priced, pricing.Line{UnitPrice: l.Product.UnitPrice, Quantity: l.Quantity})
	}
	o.Totals = calc.ComputeTotals(priced, o.CouponCode)

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// IsOwnedBy reports whether the order was placed by userID
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// ContainsVendor reports whether at least one line is fulfilled by vendorID
func (o *Order) ContainsVendor(vendorID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}

// TotalItems returns the sum of line quantities
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TransitionTo moves the order to target, returning INVALID_TRANSITION when
// the state machine forbids it
func (o *Order) TransitionTo(target OrderStatus, actor string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if o.Status.IsTerminal() {
		return shared.NewDomainError(shared.ErrInvalidTransition.Code, "Cannot change status of a delivered or cancelled order")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidTransition.Code,
			fmt.Sprintf("Cannot change status from %s to %s", o.Status, target))
	}

	from := o.Status
	o.Status = target
	o.Touch()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, actor))
	if target == OrderStatusCancelled {
		o.AddDomainEvent(NewOrderCancelledEvent(o, from, actor))
	}
	return nil
}

// Cancel cancels the order on behalf of its customer. Delivered or already
// cancelled orders fail with INVALID_STATE.
func (o *Order) Cancel(actor string) error {
	if o.Status.IsTerminal() {
		return shared.InvalidState(fmt.Sprintf("Cannot cancel order with status: %s", o.Status))
	}
	return o.TransitionTo(OrderStatusCancelled, actor)
}

