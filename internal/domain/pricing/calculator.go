// Package pricing computes the monetary totals of a basket of line items.
package pricing

import (
	"fmt"

	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart or order line
const MaxLineQuantity = 1000

// ValidateQuantity rejects line quantities outside 1..MaxLineQuantity
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if quantity > MaxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity cannot exceed %d", MaxLineQuantity))
	}
	return nil
}

// Line is the minimal view of a priced line item the calculator needs
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals holds the computed amounts for a cart or an order.
// Every component is rounded to two places and Total is derived from the
// rounded components, so Total == Subtotal + Tax + Shipping - Discount holds exactly.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ZeroTotals returns totals with every component set to zero
func ZeroTotals() Totals {
	return Totals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Shipping: decimal.Zero,
		Discount: decimal.Zero,
		Total:    decimal.Zero,
	}
}

// Equal compares totals component by component
func (t Totals) Equal(other Totals) bool {
	return t.Subtotal.Equal(other.Subtotal) &&
		t.Tax.Equal(other.Tax) &&
		t.Shipping.Equal(other.Shipping) &&
		t.Discount.Equal(other.Discount) &&
		t.Total.Equal(other.Total)
}

// Policy carries the storefront pricing constants
type Policy struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	Currency              valueobject.Currency
}

// DefaultPolicy returns 18% tax, free shipping strictly above 1000 and a flat fee of 100
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:               decimal.RequireFromString("0.18"),
		FreeShippingThreshold: decimal.NewFromInt(1000),
		FlatShippingFee:       decimal.NewFromInt(100),
		Currency:              valueobject.DefaultCurrency,
	}
}

// TotalsCalculator is implemented by Calculator and by test doubles
type TotalsCalculator interface {
	ComputeTotals(lines []Line, couponCode string) Totals
}

// Calculator computes totals. It has no side effects and is safe for concurrent use.
type Calculator struct {
	policy  Policy
	coupons CouponResolver
}

// NewCalculator creates a calculator. A nil resolver falls back to ZeroCouponResolver.
func NewCalculator(policy Policy, coupons CouponResolver) *Calculator {
	if coupons == nil {
		coupons = ZeroCouponResolver{}
	}
	if policy.Currency == "" {
		policy.Currency = valueobject.DefaultCurrency
	}
	return &Calculator{policy: policy, coupons: coupons}
}

var _ TotalsCalculator = (*Calculator)(nil)

// NewDefaultCalculator creates a calculator with DefaultPolicy and no coupon engine
func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultPolicy(), nil)
}

// Policy returns the pricing policy in use
func (c *Calculator) Policy() Policy {
	return c.policy
}

// ComputeTotals computes subtotal, tax, shipping, discount and total for the lines.
// An empty basket owes nothing, so it yields ZeroTotals rather than the flat shipping fee.
func (c *Calculator) ComputeTotals(lines []Line, couponCode string) Totals {
	if len(lines) == 0 {
		return ZeroTotals()
	}
	cur := c.policy.Currency
	subtotal := valueobject.Zero(cur)
	for _, l := range lines {
		subtotal = subtotal.MustAdd(valueobject.MustNewMoney(l.UnitPrice, cur).MultiplyByInt(int64(l.Quantity)))
	}
	subtotal = subtotal.Round(valueobject.MoneyScale)

	tax := subtotal.Multiply(c.policy.TaxRate).Round(valueobject.MoneyScale)

	shipping := valueobject.MustNewMoney(c.policy.FlatShippingFee, cur)
	if subtotal.Amount().GreaterThan(c.policy.FreeShippingThreshold) {
		shipping = valueobject.Zero(cur)
	}
	shipping = shipping.Round(valueobject.MoneyScale)

	gross := subtotal.MustAdd(tax).MustAdd(shipping)

	discount := valueobject.Zero(cur)
	if couponCode != "" {
		resolved := c.coupons.ResolveDiscount(couponCode)
		if resolved.IsPositive() {
			discount = valueobject.MustNewMoney(resolved, cur).Round(valueobject.MoneyScale).Min(gross)
		}
	}

	return Totals{
		Subtotal: subtotal.Amount(),
		Tax:      tax.Amount(),
		Shipping: shipping.Amount(),
		Discount: discount.Amount(),
		Total:    gross.MustSubtract(discount).Amount(),
	}
}
