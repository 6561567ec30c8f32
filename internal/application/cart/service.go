package cart

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	appshared "github.com/multimart/backend/internal/application/shared"
	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/identity"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service handles cart business operations
type Service struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
	vendorRepo  catalog.VendorRepository
	userRepo    identity.UserRepository
	txScope     appshared.TransactionScope
	calc        pricing.TotalsCalculator

	cache   Cache
	metrics Metrics
	logger  *zap.Logger
	loads   singleflight.Group
	// writes counts committed cart writes per stripe of users. A read whose
	// stripe moved while it loaded drops the entry it just cached.
	writes [64]atomic.Uint64
}

// NewService creates a new cart Service
func NewService(
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	vendorRepo catalog.VendorRepository,
	userRepo identity.UserRepository,
	txScope appshared.TransactionScope,
	calc pricing.TotalsCalculator,
) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
		userRepo:    userRepo,
		txScope:     txScope,
		calc:        calc,
		cache:       noopCache{},
		metrics:     noopMetrics{},
		logger:      zap.NewNop(),
	}
}

// SetCache sets the read-through cache for rendered carts
func (s *Service) SetCache(cache Cache) {
	if cache != nil {
		s.cache = cache
	}
}

// SetMetrics sets the cart metrics recorder
func (s *Service) SetMetrics(metrics Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
// Concurrent cache misses for the same user share a single database load.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cached, err := s.cache.Get(ctx, userID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("Cart cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
	}

	v, err, _ := s.loads.Do(userID.String(), func() (interface{}, error) {
		writes := s.writeCounter(userID)
		seen := writes.Load()
		c, err := s.GetOrCreate(ctx, userID)
		if err != nil {
			return nil, err
		}
		response := ToCartResponse(c)
		if err := s.cache.Set(ctx, userID, &response); err != nil {
			s.logger.Warn("Cart cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
		// a write committed during the load; its eviction may have run before our Set
		if writes.Load() != seen {
			s.evict(ctx, userID)
		}
		return &response, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CartResponse), nil
}

// GetOrCreate loads the user's cart aggregate or creates and stores an empty one
func (s *Service) GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.loadOrCreate(ctx, userID)
}

// AddItem adds a product to the cart or increases the quantity of its existing line
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	if err := pricing.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	vendor, err := s.vendorRepo.FindByID(ctx, product.VendorID)
	if err != nil {
		return nil, err
	}

	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := c.AddItem(product.Snapshot(vendor), req.Quantity, s.calc); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.RecordCartOperation(ctx, OperationAddItem)
	s.logger.Debug("Cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("quantity", req.Quantity),
	)
	response := ToCartResponse(c)
	return &response, nil
}

// UpdateItem replaces the quantity of a line in the user's cart
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	if err := pricing.ValidateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	c, err := s.cartHoldingItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateItemQuantity(itemID, req.Quantity, s.calc); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.RecordCartOperation(ctx, OperationUpdateItem)
	response := ToCartResponse(c)
	return &response, nil
}

// RemoveItem deletes a line from the user's cart
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartHoldingItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(itemID, s.calc); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.RecordCartOperation(ctx, OperationRemoveItem)
	response := ToCartResponse(c)
	return &response, nil
}

// Clear empties the user's cart
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Clear(cart.ClearReasonUser, s.calc)
	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.RecordCartOperation(ctx, OperationClear)
	response := ToCartResponse(c)
	return &response, nil
}

// ApplyCoupon stores a coupon code on the cart and reprices it
func (s *Service) ApplyCoupon(ctx context.Context, userID uuid.UUID, req ApplyCouponRequest) (*CartResponse, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyCoupon(req.CouponCode, s.calc); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.RecordCartOperation(ctx, OperationApplyCoupon)
	response := ToCartResponse(c)
	return &response, nil
}

// RemoveCoupon drops the coupon code from the cart
func (s *Service) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.RemoveCoupon(s.calc)
	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// InvalidateCache drops the cached cart of a user. Checkout calls it after
// clearing a cart in its own transaction.
func (s *Service) InvalidateCache(ctx context.Context, userID uuid.UUID) {
	s.writeCounter(userID).Add(1)
	s.evict(ctx, userID)
}

func (s *Service) evict(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("Cart cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *Service) writeCounter(userID uuid.UUID) *atomic.Uint64 {
	return &s.writes[int(userID[15])%len(s.writes)]
}

func (s *Service) ensureUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.userRepo.FindByID(ctx, userID)
	return err
}

func (s *Service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	c, err = cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		// Another request created the cart first
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.cartRepo.FindByUserID(ctx, userID)
		}
		return nil, err
	}
	return c, nil
}

// cartHoldingItem returns the user's cart when it holds itemID. Otherwise it
// reports FORBIDDEN when the line lives in another user's cart and NOT_FOUND
// when it does not exist at all.
func (s *Service) cartHoldingItem(ctx context.Context, userID, itemID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if c != nil {
		if _, ok := c.FindItem(itemID); ok {
			return c, nil
		}
	}

	owner, err := s.cartRepo.FindItemOwner(ctx, itemID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, cart.ErrCartItemNotFound
		}
		return nil, err
	}
	if owner != userID {
		return nil, shared.Forbidden("Cart item does not belong to the current user")
	}
	return nil, cart.ErrCartItemNotFound
}

// persist saves the cart with its version check, writes pending events to the
// outbox in the same transaction, and drops the cached copy
func (s *Service) persist(ctx context.Context, c *cart.Cart) error {
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.CartRepo().SaveWithLock(ctx, c); err != nil {
			return err
		}
		return appshared.PublishPending(ctx, repos.EventPublisher(), c)
	})
	s.InvalidateCache(ctx, c.UserID)
	return err
}
