package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apporder "github.com/multimart/backend/internal/application/order"
	"github.com/multimart/backend/internal/domain/shared"
)

// CheckoutService places orders
type CheckoutService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req apporder.CreateOrderRequest) (*apporder.OrderSummary, error)
}

// CustomerOrderService is the customer side of fulfillment
type CustomerOrderService interface {
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*apporder.OrderResponse, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID, filter apporder.OrderListFilter) (*shared.Paginated[apporder.OrderSummary], error)
	GetOrderDetail(ctx context.Context, userID, orderID uuid.UUID) (*apporder.OrderResponse, error)
	GetOrderByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*apporder.OrderResponse, error)
}

// OrderHandler handles the caller's orders
type OrderHandler struct {
	BaseHandler
	checkout CheckoutService
	orders   CustomerOrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkout CheckoutService, orders CustomerOrderService) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

// RegisterRoutes mounts the customer order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders")
	g.POST("", h.CreateOrder)
	g.GET("", h.ListOrders)
	g.GET("/number/:orderNumber", h.GetOrderByNumber)
	g.GET("/:id", h.GetOrder)
	g.POST("/:id/cancel", h.CancelOrder)
}

// CreateOrder godoc
// @Summary      Check out
// @Description  Places an order from the given items, or from the caller's cart when no items are sent
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body apporder.CreateOrderRequest true "Checkout request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	var req apporder.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	summary, err := h.checkout.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, summary)
}

// ListOrders godoc
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Param        status query string false "Order status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	var filter apporder.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.orders.GetUserOrders(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetOrder godoc
// @Summary      Get one of the caller's orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	orderID, ok := h.PathUUID(c, "id", "order")
	if !ok {
		return
	}
	order, err := h.orders.GetOrderDetail(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetOrderByNumber godoc
// @Summary      Get one of the caller's orders by order number
// @Tags         orders
// @Produce      json
// @Param        orderNumber path string true "Order number, e.g. ORD-1A2B3C4D"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /orders/number/{orderNumber} [get]
func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	number := strings.ToUpper(strings.TrimSpace(c.Param("orderNumber")))
	order, err := h.orders.GetOrderByNumber(c.Request.Context(), userID, number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// CancelOrder godoc
// @Summary      Cancel one of the caller's orders
// @Description  Allowed until the order is delivered or already cancelled
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	orderID, ok := h.PathUUID(c, "id", "order")
	if !ok {
		return
	}
	order, err := h.orders.CancelOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
