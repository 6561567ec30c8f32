package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/multimart/backend/internal/application/catalog"
	apporder "github.com/multimart/backend/internal/application/order"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/interfaces/http/middleware"
)

// VendorOrderService is the vendor side of fulfillment
type VendorOrderService interface {
	GetVendorOrders(ctx context.Context, vendorUserID uuid.UUID, filter apporder.OrderListFilter) (*shared.Paginated[apporder.OrderSummary], error)
	UpdateOrderStatusByVendor(ctx context.Context, vendorUserID, orderID uuid.UUID, req apporder.UpdateOrderStatusRequest) (*apporder.OrderResponse, error)
}

// VendorProductService manages a vendor's listings
type VendorProductService interface {
	CreateProduct(ctx context.Context, vendorUserID uuid.UUID, req appcatalog.ProductRequest) (*appcatalog.ProductResponse, error)
	UpdateProduct(ctx context.Context, vendorUserID, productID uuid.UUID, req appcatalog.ProductRequest) (*appcatalog.ProductResponse, error)
	DeleteProduct(ctx context.Context, vendorUserID, productID uuid.UUID) error
}

// VendorHandler handles the vendor dashboard endpoints. Approval is
// enforced by the services; the route group only checks the role.
type VendorHandler struct {
	BaseHandler
	orders   VendorOrderService
	products VendorProductService
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(orders VendorOrderService, products VendorProductService) *VendorHandler {
	return &VendorHandler{orders: orders, products: products}
}

// RegisterRoutes mounts the vendor routes behind the vendor role check
func (h *VendorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/vendor", middleware.RequireVendor())
	g.GET("/orders", h.ListOrders)
	g.PUT("/orders/:id/status", h.UpdateOrderStatus)
	g.POST("/products", h.CreateProduct)
	g.PUT("/products/:id", h.UpdateProduct)
	g.DELETE("/products/:id", h.DeleteProduct)
}

// ListOrders godoc
// @Summary      List orders containing the vendor's products
// @Tags         vendor
// @Produce      json
// @Param        status query string false "Order status"
// @Param        page query int false "Page number" default(1)
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Router       /vendor/orders [get]
func (h *VendorHandler) ListOrders(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	var filter apporder.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.orders.GetVendorOrders(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateOrderStatus godoc
// @Summary      Move an order through fulfillment
// @Tags         vendor
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body apporder.UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /vendor/orders/{id}/status [put]
func (h *VendorHandler) UpdateOrderStatus(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	orderID, ok := h.PathUUID(c, "id", "order")
	if !ok {
		return
	}
	var req apporder.UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.UpdateOrderStatusByVendor(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// CreateProduct godoc
// @Summary      Create a product listing
// @Tags         vendor
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.ProductRequest true "Product"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Router       /vendor/products [post]
func (h *VendorHandler) CreateProduct(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	var req appcatalog.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.products.CreateProduct(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateProduct godoc
// @Summary      Replace a product listing
// @Tags         vendor
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body appcatalog.ProductRequest true "Product"
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /vendor/products/{id} [put]
func (h *VendorHandler) UpdateProduct(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id", "product")
	if !ok {
		return
	}
	var req appcatalog.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.products.UpdateProduct(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct godoc
// @Summary      Delete a product listing
// @Tags         vendor
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /vendor/products/{id} [delete]
func (h *VendorHandler) DeleteProduct(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id", "product")
	if !ok {
		return
	}
	if err := h.products.DeleteProduct(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
