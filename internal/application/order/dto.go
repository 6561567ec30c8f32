package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/order"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// CreateOrderRequest represents a checkout request. Without items the
// caller's cart is checked out.
type CreateOrderRequest struct {
	Items             []OrderItemInput `json:"items" binding:"omitempty,dive"`
	ShippingAddressID *uuid.UUID       `json:"shipping_address_id"`
	BillingAddressID  *uuid.UUID       `json:"billing_address_id"`
	PaymentMethod     string           `json:"payment_method" binding:"required,max=50"`
	CouponCode        string           `json:"coupon_code" binding:"max=50"`
	Notes             string           `json:"notes" binding:"max=1000"`
}

// OrderItemInput represents a directly ordered product
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=1000"`
}

// UpdateOrderStatusRequest represents a vendor status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
}

// OrderListFilter represents pagination and status filtering for order lists
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ==================== Response DTOs ====================

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	VendorID     uuid.UUID       `json:"vendor_id"`
	VendorName   string          `json:"vendor_name"`
}

// AddressResponse represents an address snapshot in API responses
type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// OrderSummary is the compact order view returned by checkout and list endpoints
type OrderSummary struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        order.OrderStatus   `json:"status"`
	PaymentStatus order.PaymentStatus `json:"payment_status"`
	Items         []OrderItemResponse `json:"items"`
	pricing.Totals
	CreatedAt time.Time `json:"created_at"`
}

// OrderResponse is the full order view
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          uuid.UUID           `json:"user_id"`
	Items           []OrderItemResponse `json:"items"`
	Status          order.OrderStatus   `json:"status"`
	ShippingAddress *AddressResponse    `json:"shipping_address,omitempty"`
	BillingAddress  *AddressResponse    `json:"billing_address,omitempty"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   order.PaymentStatus `json:"payment_status"`
	pricing.Totals
	CouponCode string    `json:"coupon_code,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToOrderSummary converts an order aggregate to its summary form
func ToOrderSummary(o *order.Order) OrderSummary {
	return OrderSummary{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Items:         toItemResponses(o.Items),
		Totals:        o.Totals,
		CreatedAt:     o.CreatedAt,
	}
}

// ToOrderSummaries converts a list of orders
func ToOrderSummaries(orders []order.Order) []OrderSummary {
	summaries := make([]OrderSummary, len(orders))
	for i := range orders {
		summaries[i] = ToOrderSummary(&orders[i])
	}
	return summaries
}

// ToOrderResponse converts an order aggregate to its full response form
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Items:           toItemResponses(o.Items),
		Status:          o.Status,
		ShippingAddress: toAddressResponse(o.ShippingAddress),
		BillingAddress:  toAddressResponse(o.BillingAddress),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		Totals:          o.Totals,
		CouponCode:      o.CouponCode,
		Notes:           o.Notes,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toItemResponses(items []order.OrderItem) []OrderItemResponse {
	responses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		responses[i] = OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			Quantity:     item.Quantity,
			Price:        item.UnitPrice,
			LineTotal:    item.LineTotal(),
			VendorID:     item.VendorID,
			VendorName:   item.VendorName,
		}
	}
	return responses
}

func toAddressResponse(a valueobject.Address) *AddressResponse {
	if a.IsEmpty() {
		return nil
	}
	return &AddressResponse{
		Street:  a.Street(),
		City:    a.City(),
		State:   a.State(),
		ZipCode: a.ZipCode(),
		Country: a.Country(),
	}
}
