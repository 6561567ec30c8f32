package models

import (
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AddressColumns stores a valueobject.Address as embedded columns
type AddressColumns struct {
	Street  string `gorm:"type:varchar(255)"`
	City    string `gorm:"type:varchar(100)"`
	State   string `gorm:"type:varchar(100)"`
	ZipCode string `gorm:"type:varchar(20)"`
	Country string `gorm:"type:varchar(100)"`
}

// AddressColumnsFromDomain flattens an address
func AddressColumnsFromDomain(a valueobject.Address) AddressColumns {
	return AddressColumns{
		Street:  a.Street(),
		City:    a.City(),
		State:   a.State(),
		ZipCode: a.ZipCode(),
		Country: a.Country(),
	}
}

// ToDomain rebuilds the address value object
func (c AddressColumns) ToDomain() valueobject.Address {
	return valueobject.RestoreAddress(c.Street, c.City, c.State, c.ZipCode, c.Country)
}

// TotalsColumns stores pricing.Totals as embedded columns
type TotalsColumns struct {
	Subtotal decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Tax      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Shipping decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Discount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TotalsColumnsFromDomain flattens totals
func TotalsColumnsFromDomain(t pricing.Totals) TotalsColumns {
	return TotalsColumns{
		Subtotal: t.Subtotal,
		Tax:      t.Tax,
		Shipping: t.Shipping,
		Discount: t.Discount,
		Total:    t.Total,
	}
}

// ToDomain rebuilds the totals
func (c TotalsColumns) ToDomain() pricing.Totals {
	return pricing.Totals{
		Subtotal: c.Subtotal,
		Tax:      c.Tax,
		Shipping: c.Shipping,
		Discount: c.Discount,
		Total:    c.Total,
	}
}
