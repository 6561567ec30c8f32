package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	appcart "github.com/multimart/backend/internal/application/cart"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleCartResponse(userID uuid.UUID) *appcart.CartResponse {
	return &appcart.CartResponse{
		ID:         uuid.New(),
		UserID:     userID,
		TotalItems: 3,
		Totals: pricing.Totals{
			Subtotal: decimal.NewFromInt(1100),
			Tax:      decimal.NewFromInt(198),
			Shipping: decimal.Zero,
			Discount: decimal.Zero,
			Total:    decimal.NewFromInt(1298),
		},
		Version: 2,
	}
}

func TestCartHandler_GetCart(t *testing.T) {
	svc := new(mockCartService)
	r := newTestRouter(NewCartHandler(svc))
	userID := uuid.New()
	svc.On("GetCart", mock.Anything, userID).Return(sampleCartResponse(userID), nil)

	w, resp := do(t, r, call{method: http.MethodGet, path: "/api/v1/cart", userID: userID})

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	totals := dataMap(t, resp)["totals"].(map[string]any)
	assert.Equal(t, "1298", totals["total"])
	assert.Equal(t, "198", totals["tax"])
	svc.AssertExpectations(t)
}

func TestCartHandler_RequiresPrincipal(t *testing.T) {
	svc := new(mockCartService)
	r := newTestRouter(NewCartHandler(svc))

	w, resp := do(t, r, call{method: http.MethodGet, path: "/api/v1/cart"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", resp.Error.Code)
	svc.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
}

func TestCartHandler_AddItem(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("binds and forwards the request", func(t *testing.T) {
		svc := new(mockCartService)
		r := newTestRouter(NewCartHandler(svc))
		req := appcart.AddItemRequest{ProductID: productID, Quantity: 2}
		svc.On("AddItem", mock.Anything, userID, req).Return(sampleCartResponse(userID), nil)

		w, _ := do(t, r, call{method: http.MethodPost, path: "/api/v1/cart/items", userID: userID, body: req})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects a zero quantity before the service", func(t *testing.T) {
		svc := new(mockCartService)
		r := newTestRouter(NewCartHandler(svc))

		w, resp := do(t, r, call{
			method: http.MethodPost, path: "/api/v1/cart/items", userID: userID,
			body: map[string]any{"product_id": productID, "quantity": 0},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
		svc.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a quantity above the line cap before the service", func(t *testing.T) {
		svc := new(mockCartService)
		r := newTestRouter(NewCartHandler(svc))

		w, resp := do(t, r, call{
			method: http.MethodPost, path: "/api/v1/cart/items", userID: userID,
			body: map[string]any{"product_id": productID, "quantity": 1001},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
		svc.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product maps to 404", func(t *testing.T) {
		svc := new(mockCartService)
		r := newTestRouter(NewCartHandler(svc))
		svc.On("AddItem", mock.Anything, userID, mock.Anything).Return(nil, shared.NotFound("product not found"))

		w, resp := do(t, r, call{
			method: http.MethodPost, path: "/api/v1/cart/items", userID: userID,
			body: appcart.AddItemRequest{ProductID: productID, Quantity: 1},
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ERR_NOT_FOUND", resp.Error.Code)
		assert.Equal(t, "product not found", resp.Error.Message)
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("invalid item id", func(t *testing.T) {
		svc := new(mockCartService)
		r := newTestRouter(NewCartHandler(svc))

		w, resp := do(t, r, call{
			method: http.MethodPut, path: "/api/v1/cart/items/not-a-uuid", userID: userID,
			body: appcart.UpdateItemRequest{Quantity: 1},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_INVALID_ID", resp.Error.Code)
	})

	t.Run("concurrent modification maps to 409", func(t *testing.T) {
		svc := new(mockCartService)
		r := newTestRouter(NewCartHandler(svc))
		svc.On("UpdateItem", mock.Anything, userID, itemID, appcart.UpdateItemRequest{Quantity: 4}).
			Return(nil, shared.ErrConcurrencyConflict)

		w, resp := do(t, r, call{
			method: http.MethodPut, path: "/api/v1/cart/items/" + itemID.String(), userID: userID,
			body: appcart.UpdateItemRequest{Quantity: 4},
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ERR_CONCURRENCY_CONFLICT", resp.Error.Code)
	})
}

func TestCartHandler_RemoveClearAndCoupon(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	svc := new(mockCartService)
	r := newTestRouter(NewCartHandler(svc))
	cart := sampleCartResponse(userID)

	svc.On("RemoveItem", mock.Anything, userID, itemID).Return(cart, nil)
	svc.On("Clear", mock.Anything, userID).Return(cart, nil)
	svc.On("ApplyCoupon", mock.Anything, userID, appcart.ApplyCouponRequest{CouponCode: "SAVE10"}).Return(cart, nil)
	svc.On("RemoveCoupon", mock.Anything, userID).Return(cart, nil)

	calls := []call{
		{method: http.MethodDelete, path: "/api/v1/cart/items/" + itemID.String()},
		{method: http.MethodDelete, path: "/api/v1/cart"},
		{method: http.MethodPost, path: "/api/v1/cart/coupon", body: appcart.ApplyCouponRequest{CouponCode: "SAVE10"}},
		{method: http.MethodDelete, path: "/api/v1/cart/coupon"},
	}
	for _, cl := range calls {
		cl.userID = userID
		w, _ := do(t, r, cl)
		assert.Equal(t, http.StatusOK, w.Code, cl.method+" "+cl.path)
	}
	svc.AssertExpectations(t)
}

func TestCartHandler_InvalidCoupon(t *testing.T) {
	userID := uuid.New()
	svc := new(mockCartService)
	r := newTestRouter(NewCartHandler(svc))
	svc.On("ApplyCoupon", mock.Anything, userID, mock.Anything).
		Return(nil, shared.NewDomainError("INVALID_COUPON", "coupon code is not recognised"))

	w, resp := do(t, r, call{
		method: http.MethodPost, path: "/api/v1/cart/coupon", userID: userID,
		body: appcart.ApplyCouponRequest{CouponCode: "NOPE"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_INVALID_COUPON", resp.Error.Code)
}
