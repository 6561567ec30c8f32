package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcart "github.com/multimart/backend/internal/application/cart"
)

// CartService is the cart use-case surface the handler depends on
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*appcart.CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req appcart.AddItemRequest) (*appcart.CartResponse, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req appcart.UpdateItemRequest) (*appcart.CartResponse, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*appcart.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) (*appcart.CartResponse, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, req appcart.ApplyCouponRequest) (*appcart.CartResponse, error)
	RemoveCoupon(ctx context.Context, userID uuid.UUID) (*appcart.CartResponse, error)
}

// CartHandler handles the caller's shopping cart
type CartHandler struct {
	BaseHandler
	carts CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// RegisterRoutes mounts the cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/cart")
	g.GET("", h.GetCart)
	g.DELETE("", h.ClearCart)
	g.POST("/items", h.AddItem)
	g.PUT("/items/:itemId", h.UpdateItem)
	g.DELETE("/items/:itemId", h.RemoveItem)
	g.POST("/coupon", h.ApplyCoupon)
	g.DELETE("/coupon", h.RemoveCoupon)
}

// GetCart godoc
// @Summary      Get the caller's cart
// @Description  Returns the cart with priced totals, creating an empty cart on first access
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Router       /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	cart, err := h.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Adds quantity to an existing line for the product or creates a new line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body appcart.AddItemRequest true "Product and quantity"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	var req appcart.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateItem godoc
// @Summary      Change a cart line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        itemId path string true "Cart item ID" format(uuid)
// @Param        request body appcart.UpdateItemRequest true "New quantity"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /cart/items/{itemId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	itemID, ok := h.PathUUID(c, "itemId", "cart item")
	if !ok {
		return
	}
	var req appcart.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cart, err := h.carts.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        itemId path string true "Cart item ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /cart/items/{itemId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	itemID, ok := h.PathUUID(c, "itemId", "cart item")
	if !ok {
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// ClearCart godoc
// @Summary      Empty the cart
// @Description  Removes every line and the applied coupon
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	cart, err := h.carts.Clear(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// ApplyCoupon godoc
// @Summary      Apply a coupon code
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body appcart.ApplyCouponRequest true "Coupon code"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /cart/coupon [post]
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	var req appcart.ApplyCouponRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cart, err := h.carts.ApplyCoupon(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveCoupon godoc
// @Summary      Remove the applied coupon
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /cart/coupon [delete]
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	userID, ok := h.Principal(c)
	if !ok {
		return
	}
	cart, err := h.carts.RemoveCoupon(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}
