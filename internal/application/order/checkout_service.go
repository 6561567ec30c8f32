package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appshared "github.com/multimart/backend/internal/application/shared"
	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/identity"
	"github.com/multimart/backend/internal/domain/order"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned when checking out a missing or empty cart
var ErrEmptyCart = shared.NewDomainError("EMPTY_CART", "Cart is empty")

// orderNumberAttempts bounds how often checkout draws a fresh order number
// after a collision
const orderNumberAttempts = 2

// Metrics records order activity
type Metrics interface {
	RecordOrderPlaced(ctx context.Context, paymentMethod string, total decimal.Decimal)
	RecordOrderStatusChange(ctx context.Context, from, to string)
}

// CartCacheInvalidator drops cached carts after checkout empties them
type CartCacheInvalidator interface {
	InvalidateCache(ctx context.Context, userID uuid.UUID)
}

type noopMetrics struct{}

func (noopMetrics) RecordOrderPlaced(context.Context, string, decimal.Decimal) {}
func (noopMetrics) RecordOrderStatusChange(context.Context, string, string)    {}

// CheckoutService turns a cart or an explicit item list into an order
type CheckoutService struct {
	userRepo    identity.UserRepository
	addressRepo identity.AddressRepository
	productRepo catalog.ProductRepository
	vendorRepo  catalog.VendorRepository
	cartRepo    cart.CartRepository
	txScope     appshared.TransactionScope
	calc        pricing.TotalsCalculator

	cartCache CartCacheInvalidator
	metrics   Metrics
	logger    *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	userRepo identity.UserRepository,
	addressRepo identity.AddressRepository,
	productRepo catalog.ProductRepository,
	vendorRepo catalog.VendorRepository,
	cartRepo cart.CartRepository,
	txScope appshared.TransactionScope,
	calc pricing.TotalsCalculator,
) *CheckoutService {
	return &CheckoutService{
		userRepo:    userRepo,
		addressRepo: addressRepo,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
		cartRepo:    cartRepo,
		txScope:     txScope,
		calc:        calc,
		metrics:     noopMetrics{},
		logger:      zap.NewNop(),
	}
}

// SetCartCache sets the cart cache that is invalidated after a cart checkout
func (s *CheckoutService) SetCartCache(cache CartCacheInvalidator) {
	s.cartCache = cache
}

// SetMetrics sets the order metrics recorder
func (s *CheckoutService) SetMetrics(metrics Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// SetLogger sets the logger
func (s *CheckoutService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// CreateOrder places an order for userID. With explicit items the current
// catalog prices are used. Otherwise the cart is checked out at the prices
// captured in it and is emptied in the same transaction as the order insert.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	shipping, err := s.resolveAddress(ctx, user, req.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	billing, err := s.resolveAddress(ctx, user, req.BillingAddressID)
	if err != nil {
		return nil, err
	}

	var (
		lines      []order.LineSpec
		sourceCart *cart.Cart
	)
	couponCode := req.CouponCode
	if len(req.Items) > 0 {
		lines, err = s.linesFromItems(ctx, req.Items)
	} else {
		sourceCart, err = s.loadCart(ctx, userID)
		if err == nil {
			lines, err = s.linesFromCart(ctx, sourceCart)
			if couponCode == "" {
				couponCode = sourceCart.CouponCode
			}
		}
	}
	if err != nil {
		return nil, err
	}

	params := order.PlaceOrderParams{
		UserID:          userID,
		Lines:           lines,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      couponCode,
		Notes:           req.Notes,
	}
	var o *order.Order
	for attempt := 1; ; attempt++ {
		o, err = order.PlaceOrder(params, s.calc)
		if err != nil {
			return nil, err
		}
		var numberTaken bool
		numberTaken, err = s.persistOrder(ctx, o, sourceCart)
		if !numberTaken || attempt == orderNumberAttempts {
			break
		}
		s.logger.Info("Order number already in use, retrying with a new one",
			zap.String("order_number", o.OrderNumber),
			zap.String("user_id", userID.String()),
		)
	}
	if sourceCart != nil && s.cartCache != nil {
		s.cartCache.InvalidateCache(ctx, userID)
	}
	if err != nil {
		s.logger.Warn("Checkout failed",
			zap.String("user_id", userID.String()),
			zap.Bool("from_cart", sourceCart != nil),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordOrderPlaced(ctx, o.PaymentMethod, o.Totals.Total)
	s.logger.Info("Order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.Int("items", len(o.Items)),
		zap.String("total", o.Totals.Total.StringFixed(2)),
	)

	summary := ToOrderSummary(o)
	return &summary, nil
}

// persistOrder inserts o and empties sourceCart, when set, in one transaction.
// numberTaken reports that the insert hit an existing order number, in which
// case nothing was written and sourceCart is untouched.
func (s *CheckoutService) persistOrder(ctx context.Context, o *order.Order, sourceCart *cart.Cart) (numberTaken bool, err error) {
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			numberTaken = shared.ErrorCode(err) == "ALREADY_EXISTS"
			return err
		}
		if err := appshared.PublishPending(ctx, repos.EventPublisher(), o); err != nil {
			return err
		}
		if sourceCart == nil {
			return nil
		}
		sourceCart.Clear(cart.ClearReasonCheckout, s.calc)
		if err := repos.CartRepo().SaveWithLock(ctx, sourceCart); err != nil {
			return err
		}
		return appshared.PublishPending(ctx, repos.EventPublisher(), sourceCart)
	})
	return numberTaken, err
}

// resolveAddress returns the address book entry addressID, or the profile
// address of the user when addressID is nil
func (s *CheckoutService) resolveAddress(ctx context.Context, user *identity.User, addressID *uuid.UUID) (valueobject.Address, error) {
	if addressID == nil {
		return user.Address, nil
	}
	entry, err := s.addressRepo.FindByID(ctx, *addressID)
	if err != nil {
		return valueobject.Address{}, err
	}
	if !entry.BelongsTo(user.ID) {
		return valueobject.Address{}, shared.Forbidden("Address does not belong to user")
	}
	return entry.Address, nil
}

func (s *CheckoutService) loadCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return c, nil
}

func (s *CheckoutService) linesFromItems(ctx context.Context, items []OrderItemInput) ([]order.LineSpec, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if err := pricing.ValidateQuantity(item.Quantity); err != nil {
			return nil, err
		}
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendorsOf(ctx, products)
	if err != nil {
		return nil, err
	}

	lines := make([]order.LineSpec, 0, len(items))
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, shared.NotFound("Product not found")
		}
		lines = append(lines, order.LineSpec{
			Product:  p.Snapshot(vendors[p.VendorID]),
			Quantity: item.Quantity,
		})
	}
	return lines, nil
}

// linesFromCart refreshes name, image and vendor name from the catalog while
// keeping the price captured in the cart. Lines whose product has since been
// removed keep their cart snapshot.
func (s *CheckoutService) linesFromCart(ctx context.Context, c *cart.Cart) ([]order.LineSpec, error) {
	ids := make([]uuid.UUID, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	vendors, err := s.vendorsOf(ctx, products)
	if err != nil {
		return nil, err
	}

	lines := make([]order.LineSpec, len(c.Items))
	for i, item := range c.Items {
		snapshot := item.Snapshot()
		if p, ok := products[item.ProductID]; ok {
			snapshot = p.Snapshot(vendors[p.VendorID])
			snapshot.UnitPrice = item.UnitPrice
		}
		lines[i] = order.LineSpec{Product: snapshot, Quantity: item.Quantity}
	}
	return lines, nil
}

func (s *CheckoutService) vendorsOf(ctx context.Context, products map[uuid.UUID]*catalog.Product) (map[uuid.UUID]*catalog.Vendor, error) {
	seen := make(map[uuid.UUID]struct{}, len(products))
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.VendorID]; ok {
			continue
		}
		seen[p.VendorID] = struct{}{}
		ids = append(ids, p.VendorID)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.Vendor{}, nil
	}
	return s.vendorRepo.FindByIDs(ctx, ids)
}
