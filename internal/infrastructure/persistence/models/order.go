package models

import (
	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	AggregateModel
	OrderNumber     string              `gorm:"type:varchar(20);not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status          order.OrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ShippingAddress AddressColumns      `gorm:"embedded;embeddedPrefix:shipping_"`
	BillingAddress  AddressColumns      `gorm:"embedded;embeddedPrefix:billing_"`
	PaymentMethod   string              `gorm:"type:varchar(50);not null"`
	PaymentStatus   order.PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Totals          TotalsColumns       `gorm:"embedded"`
	CouponCode      string              `gorm:"type:varchar(50)"`
	Notes           string              `gorm:"type:text"`
	Items           []OrderItemModel    `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	items := make([]order.OrderItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &order.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		UserID:            m.UserID,
		Items:             items,
		Status:            m.Status,
		ShippingAddress:   m.ShippingAddress.ToDomain(),
		BillingAddress:    m.BillingAddress.ToDomain(),
		PaymentMethod:     m.PaymentMethod,
		PaymentStatus:     m.PaymentStatus,
		Totals:            m.Totals.ToDomain(),
		CouponCode:        m.CouponCode,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.UserID = o.UserID
	m.Status = o.Status
	m.ShippingAddress = AddressColumnsFromDomain(o.ShippingAddress)
	m.BillingAddress = AddressColumnsFromDomain(o.BillingAddress)
	m.PaymentMethod = o.PaymentMethod
	m.PaymentStatus = o.PaymentStatus
	m.Totals = TotalsColumnsFromDomain(o.Totals)
	m.CouponCode = o.CouponCode
	m.Notes = o.Notes
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(o.ID, o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	ProductImage string          `gorm:"type:varchar(500)"`
	VendorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorName   string          `gorm:"type:varchar(200)"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity     int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() order.OrderItem {
	return order.OrderItem{
		ID:           m.ID,
		OrderID:      m.OrderID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		ProductImage: m.ProductImage,
		VendorID:     m.VendorID,
		VendorName:   m.VendorName,
		UnitPrice:    m.UnitPrice,
		Quantity:     m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain OrderItem.
func (m *OrderItemModel) FromDomain(orderID uuid.UUID, item order.OrderItem) {
	m.ID = item.ID
	m.OrderID = orderID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.ProductImage = item.ProductImage
	m.VendorID = item.VendorID
	m.VendorName = item.VendorName
	m.UnitPrice = item.UnitPrice
	m.Quantity = item.Quantity
}
