package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appshared "github.com/multimart/backend/internal/application/shared"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/identity"
	"github.com/multimart/backend/internal/domain/order"
	"github.com/multimart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FulfillmentService handles order reads and status changes by customers and vendors
type FulfillmentService struct {
	orderRepo  order.OrderRepository
	userRepo   identity.UserRepository
	vendorRepo catalog.VendorRepository
	txScope    appshared.TransactionScope

	metrics Metrics
	logger  *zap.Logger
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(
	orderRepo order.OrderRepository,
	userRepo identity.UserRepository,
	vendorRepo catalog.VendorRepository,
	txScope appshared.TransactionScope,
) *FulfillmentService {
	return &FulfillmentService{
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		txScope:    txScope,
		metrics:    noopMetrics{},
		logger:     zap.NewNop(),
	}
}

// SetMetrics sets the order metrics recorder
func (s *FulfillmentService) SetMetrics(metrics Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// SetLogger sets the logger
func (s *FulfillmentService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// CancelOrder cancels an order on behalf of the customer who placed it
func (s *FulfillmentService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	o, err := ownedOrderOf(ctx, userID, s.orderRepo.FindByID, orderID)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if err := o.Cancel("user:" + userID.String()); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, o); err != nil {
		return nil, err
	}

	s.metrics.RecordOrderStatusChange(ctx, from.String(), o.Status.String())
	s.logger.Info("Order cancelled by customer",
		zap.String("order_id", o.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("from", from.String()),
	)
	response := ToOrderResponse(o)
	return &response, nil
}

// UpdateOrderStatusByVendor moves an order to a new status on behalf of an
// approved vendor with at least one line in the order
func (s *FulfillmentService) UpdateOrderStatusByVendor(ctx context.Context, vendorUserID, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	vendor, err := s.approvedVendor(ctx, vendorUserID, "update order status")
	if err != nil {
		return nil, err
	}
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.ContainsVendor(vendor.ID) {
		return nil, shared.Forbidden("Order does not contain products from this vendor")
	}

	from := o.Status
	if err := o.TransitionTo(order.OrderStatus(req.Status), "vendor:"+vendor.ID.String()); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, o); err != nil {
		return nil, err
	}

	s.metrics.RecordOrderStatusChange(ctx, from.String(), o.Status.String())
	s.logger.Info("Order status updated by vendor",
		zap.String("order_id", o.ID.String()),
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", o.Status.String()),
	)
	response := ToOrderResponse(o)
	return &response, nil
}

// GetUserOrders lists the orders of a customer, newest first
func (s *FulfillmentService) GetUserOrders(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderSummary], error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	f, err := toOrderFilter(filter)
	if err != nil {
		return nil, err
	}
	orders, total, err := s.orderRepo.FindByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderSummaries(orders), total, f.Page, f.PageSize)
	return &page, nil
}

// GetVendorOrders lists the orders holding at least one line of the caller's
// vendor account, newest first
func (s *FulfillmentService) GetVendorOrders(ctx context.Context, vendorUserID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderSummary], error) {
	vendor, err := s.approvedVendor(ctx, vendorUserID, "view orders")
	if err != nil {
		return nil, err
	}
	f, err := toOrderFilter(filter)
	if err != nil {
		return nil, err
	}
	orders, total, err := s.orderRepo.FindByVendor(ctx, vendor.ID, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderSummaries(orders), total, f.Page, f.PageSize)
	return &page, nil
}

// GetOrderDetail returns an order placed by userID
func (s *FulfillmentService) GetOrderDetail(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := ownedOrderOf(ctx, userID, s.orderRepo.FindByID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetOrderByNumber returns an order placed by userID looked up by its order number
func (s *FulfillmentService) GetOrderByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	o, err := ownedOrderOf(ctx, userID, s.orderRepo.FindByOrderNumber, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

func (s *FulfillmentService) approvedVendor(ctx context.Context, userID uuid.UUID, action string) (*catalog.Vendor, error) {
	vendor, err := s.vendorRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := vendor.EnsureApproved(action); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *FulfillmentService) persist(ctx context.Context, o *order.Order) error {
	return s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.OrderRepo().SaveWithLock(ctx, o); err != nil {
			return err
		}
		return appshared.PublishPending(ctx, repos.EventPublisher(), o)
	})
}

// ownedOrderOf loads an order with find and checks it was placed by userID
func ownedOrderOf[K any](ctx context.Context, userID uuid.UUID, find func(context.Context, K) (*order.Order, error), key K) (*order.Order, error) {
	o, err := find(ctx, key)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, shared.Forbidden("Order does not belong to user")
	}
	return o, nil
}

func toOrderFilter(filter OrderListFilter) (order.OrderFilter, error) {
	f := order.OrderFilter{Filter: shared.Filter{Page: filter.Page, PageSize: filter.PageSize}}
	f.Filter = f.Filter.Normalize()
	if filter.Status != "" {
		status := order.OrderStatus(filter.Status)
		if !status.IsValid() {
			return order.OrderFilter{}, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", filter.Status))
		}
		f.Status = &status
	}
	return f, nil
}
