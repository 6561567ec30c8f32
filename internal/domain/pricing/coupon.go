package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CouponResolver looks up the flat discount granted by a coupon code.
// Unknown codes resolve to zero.
type CouponResolver interface {
	ResolveDiscount(code string) decimal.Decimal
}

// ZeroCouponResolver grants no discount for any code
type ZeroCouponResolver struct{}

// ResolveDiscount always returns zero
func (ZeroCouponResolver) ResolveDiscount(string) decimal.Decimal {
	return decimal.Zero
}

// StaticCouponResolver resolves codes from a fixed table, case-insensitively
type StaticCouponResolver map[string]decimal.Decimal

// ResolveDiscount returns the table entry for code, or zero
func (s StaticCouponResolver) ResolveDiscount(code string) decimal.Decimal {
	if d, ok := s[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return d
	}
	return decimal.Zero
}
