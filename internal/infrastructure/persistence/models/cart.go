package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// CartModel is the persistence model for the Cart aggregate.
type CartModel struct {
	AggregateModel
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CouponCode string          `gorm:"type:varchar(50)"`
	TotalItems int             `gorm:"not null;default:0"`
	Totals     TotalsColumns   `gorm:"embedded"`
	Items      []CartItemModel `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart aggregate.
func (m *CartModel) ToDomain() *cart.Cart {
	items := make([]cart.CartItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &cart.Cart{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		Items:             items,
		CouponCode:        m.CouponCode,
		TotalItems:        m.TotalItems,
		Totals:            m.Totals.ToDomain(),
	}
}

// FromDomain populates the persistence model from a domain Cart aggregate.
func (m *CartModel) FromDomain(c *cart.Cart) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.UserID = c.UserID
	m.CouponCode = c.CouponCode
	m.TotalItems = c.TotalItems
	m.Totals = TotalsColumnsFromDomain(c.Totals)
	m.Items = make([]CartItemModel, len(c.Items))
	for i := range c.Items {
		m.Items[i].FromDomain(c.ID, c.Items[i])
	}
}

// CartModelFromDomain creates a new persistence model from a domain Cart aggregate.
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}

// CartItemModel is the persistence model for a cart line.
type CartItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID       uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_item_product,priority:1"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_product,priority:2"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	ProductImage string          `gorm:"type:varchar(500)"`
	VendorID     uuid.UUID       `gorm:"type:uuid;not null"`
	VendorName   string          `gorm:"type:varchar(200)"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity     int             `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem.
func (m *CartItemModel) ToDomain() cart.CartItem {
	return cart.CartItem{
		ID:           m.ID,
		CartID:       m.CartID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		ProductImage: m.ProductImage,
		VendorID:     m.VendorID,
		VendorName:   m.VendorName,
		UnitPrice:    m.UnitPrice,
		Quantity:     m.Quantity,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain CartItem.
func (m *CartItemModel) FromDomain(cartID uuid.UUID, item cart.CartItem) {
	m.ID = item.ID
	m.CartID = cartID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.ProductImage = item.ProductImage
	m.VendorID = item.VendorID
	m.VendorName = item.VendorName
	m.UnitPrice = item.UnitPrice
	m.Quantity = item.Quantity
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}
