package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcart "github.com/multimart/backend/internal/application/cart"
	appcatalog "github.com/multimart/backend/internal/application/catalog"
	"github.com/multimart/backend/internal/application/event"
	apporder "github.com/multimart/backend/internal/application/order"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/interfaces/http/dto"
	"github.com/multimart/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestRouter(handlers ...registrar) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")
	api.Use(middleware.Authenticate(middleware.AuthConfig{AllowUserIDHeader: true}))
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
	return r
}

type call struct {
	method string
	path   string
	body   any
	userID uuid.UUID
	role   string
}

func do(t *testing.T, r *gin.Engine, cl call) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	var buf bytes.Buffer
	switch b := cl.body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(cl.method, cl.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cl.userID != uuid.Nil {
		req.Header.Set(middleware.UserIDHeader, cl.userID.String())
	}
	if cl.role != "" {
		req.Header.Set(middleware.RoleHeader, cl.role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// dataMap re-decodes the response data as a generic object
func dataMap(t *testing.T, resp dto.Response) map[string]any {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func result[T any](args mock.Arguments) (*T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

type mockCartService struct{ mock.Mock }

func (m *mockCartService) GetCart(ctx context.Context, userID uuid.UUID) (*appcart.CartResponse, error) {
	return result[appcart.CartResponse](m.Called(ctx, userID))
}

func (m *mockCartService) AddItem(ctx context.Context, userID uuid.UUID, req appcart.AddItemRequest) (*appcart.CartResponse, error) {
	return result[appcart.CartResponse](m.Called(ctx, userID, req))
}

func (m *mockCartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req appcart.UpdateItemRequest) (*appcart.CartResponse, error) {
	return result[appcart.CartResponse](m.Called(ctx, userID, itemID, req))
}

func (m *mockCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*appcart.CartResponse, error) {
	return result[appcart.CartResponse](m.Called(ctx, userID, itemID))
}

func (m *mockCartService) Clear(ctx context.Context, userID uuid.UUID) (*appcart.CartResponse, error) {
	return result[appcart.CartResponse](m.Called(ctx, userID))
}

func (m *mockCartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, req appcart.ApplyCouponRequest) (*appcart.CartResponse, error) {
	return result[appcart.CartResponse](m.Called(ctx, userID, req))
}

func (m *mockCartService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*appcart.CartResponse, error) {
	return result[appcart.CartResponse](m.Called(ctx, userID))
}

type mockCheckout struct{ mock.Mock }

func (m *mockCheckout) CreateOrder(ctx context.Context, userID uuid.UUID, req apporder.CreateOrderRequest) (*apporder.OrderSummary, error) {
	return result[apporder.OrderSummary](m.Called(ctx, userID, req))
}

type mockFulfillment struct{ mock.Mock }

func (m *mockFulfillment) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*apporder.OrderResponse, error) {
	return result[apporder.OrderResponse](m.Called(ctx, userID, orderID))
}

func (m *mockFulfillment) GetUserOrders(ctx context.Context, userID uuid.UUID, filter apporder.OrderListFilter) (*shared.Paginated[apporder.OrderSummary], error) {
	return result[shared.Paginated[apporder.OrderSummary]](m.Called(ctx, userID, filter))
}

func (m *mockFulfillment) GetOrderDetail(ctx context.Context, userID, orderID uuid.UUID) (*apporder.OrderResponse, error) {
	return result[apporder.OrderResponse](m.Called(ctx, userID, orderID))
}

func (m *mockFulfillment) GetOrderByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*apporder.OrderResponse, error) {
	return result[apporder.OrderResponse](m.Called(ctx, userID, orderNumber))
}

func (m *mockFulfillment) GetVendorOrders(ctx context.Context, vendorUserID uuid.UUID, filter apporder.OrderListFilter) (*shared.Paginated[apporder.OrderSummary], error) {
	return result[shared.Paginated[apporder.OrderSummary]](m.Called(ctx, vendorUserID, filter))
}

func (m *mockFulfillment) UpdateOrderStatusByVendor(ctx context.Context, vendorUserID, orderID uuid.UUID, req apporder.UpdateOrderStatusRequest) (*apporder.OrderResponse, error) {
	return result[apporder.OrderResponse](m.Called(ctx, vendorUserID, orderID, req))
}

type mockProducts struct{ mock.Mock }

func (m *mockProducts) CreateProduct(ctx context.Context, vendorUserID uuid.UUID, req appcatalog.ProductRequest) (*appcatalog.ProductResponse, error) {
	return result[appcatalog.ProductResponse](m.Called(ctx, vendorUserID, req))
}

func (m *mockProducts) UpdateProduct(ctx context.Context, vendorUserID, productID uuid.UUID, req appcatalog.ProductRequest) (*appcatalog.ProductResponse, error) {
	return result[appcatalog.ProductResponse](m.Called(ctx, vendorUserID, productID, req))
}

func (m *mockProducts) DeleteProduct(ctx context.Context, vendorUserID, productID uuid.UUID) error {
	return m.Called(ctx, vendorUserID, productID).Error(0)
}

type mockOutbox struct{ mock.Mock }

func (m *mockOutbox) GetDeadLetterEntries(ctx context.Context, filter event.OutboxFilter) (*event.OutboxListResult, error) {
	return result[event.OutboxListResult](m.Called(ctx, filter))
}

func (m *mockOutbox) GetEntry(ctx context.Context, id uuid.UUID) (*event.OutboxEntryDTO, error) {
	return result[event.OutboxEntryDTO](m.Called(ctx, id))
}

func (m *mockOutbox) RetryDeadEntry(ctx context.Context, id uuid.UUID) (*event.OutboxEntryDTO, error) {
	return result[event.OutboxEntryDTO](m.Called(ctx, id))
}

func (m *mockOutbox) RetryAllDeadEntries(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOutbox) GetStats(ctx context.Context) (*event.OutboxStatsDTO, error) {
	return result[event.OutboxStatsDTO](m.Called(ctx))
}
