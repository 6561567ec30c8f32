//go:build integration

package integration

import (
	"context"
	"testing"

	cartapp "github.com/multimart/backend/internal/application/cart"
	catalogapp "github.com/multimart/backend/internal/application/catalog"
	orderapp "github.com/multimart/backend/internal/application/order"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/identity"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared/valueobject"
	"github.com/multimart/backend/internal/infrastructure/event"
	"github.com/multimart/backend/internal/infrastructure/persistence"
	"github.com/multimart/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stack is the application layer wired to Postgres the way cmd/server does it
type stack struct {
	db          *TestDB
	serializer  *event.EventSerializer
	outbox      *event.GormOutboxRepository
	users       *persistence.GormUserRepository
	addresses   *persistence.GormAddressRepository
	vendors     *persistence.GormVendorRepository
	categories  *persistence.GormCategoryRepository
	products    *persistence.GormProductRepository
	orders      *persistence.GormOrderRepository
	carts       *cartapp.Service
	checkout    *orderapp.CheckoutService
	fulfillment *orderapp.FulfillmentService
	catalog     *catalogapp.ProductService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	tdb := NewTestDB(t)
	db := tdb.DB
	log := zaptest.NewLogger(t)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	txScope := persistence.NewGormTransactionScope(db, event.NewOutboxPublisher(serializer))

	s := &stack{
		db:         tdb,
		serializer: serializer,
		outbox:     event.NewGormOutboxRepository(db),
		users:      persistence.NewGormUserRepository(db),
		addresses:  persistence.NewGormAddressRepository(db),
		vendors:    persistence.NewGormVendorRepository(db),
		categories: persistence.NewGormCategoryRepository(db),
		products:   persistence.NewGormProductRepository(db),
		orders:     persistence.NewGormOrderRepository(db),
	}
	cartRepo := persistence.NewGormCartRepository(db)
	calc := pricing.NewCalculator(pricing.DefaultPolicy(), pricing.StaticCouponResolver{
		"WELCOME100": decimal.NewFromInt(100),
	})

	s.carts = cartapp.NewService(cartRepo, s.products, s.vendors, s.users, txScope, calc)
	s.carts.SetLogger(log)
	s.checkout = orderapp.NewCheckoutService(s.users, s.addresses, s.products, s.vendors, cartRepo, txScope, calc)
	s.checkout.SetLogger(log)
	s.fulfillment = orderapp.NewFulfillmentService(s.orders, s.users, s.vendors, txScope)
	s.fulfillment.SetLogger(log)
	s.catalog = catalogapp.NewProductService(s.vendors, s.categories, s.products, txScope)
	s.catalog.SetLogger(log)
	return s
}

// seedCustomer stores a customer with a profile address and one address book entry
func (s *stack) seedCustomer(t *testing.T, username string) (*identity.User, *identity.UserAddress) {
	t.Helper()
	ctx := context.Background()
	u := testutil.NewUser(t, username)
	require.NoError(t, s.users.Save(ctx, u))

	addr, err := valueobject.NewAddress("4 Park Street", "Kolkata", "WB", "700016", "India")
	require.NoError(t, err)
	entry, err := identity.NewUserAddress(u.ID, "WORK", addr, false)
	require.NoError(t, err)
	require.NoError(t, s.addresses.Save(ctx, entry))
	return u, entry
}

// seedVendor stores an approved vendor together with its user account
func (s *stack) seedVendor(t *testing.T, storeName string) (*identity.User, *catalog.Vendor) {
	t.Helper()
	ctx := context.Background()
	u := testutil.NewUser(t, "owner-"+storeName)
	require.NoError(t, s.users.Save(ctx, u))

	v, err := catalog.NewVendor(u.ID, storeName)
	require.NoError(t, err)
	v.Approve()
	require.NoError(t, s.vendors.Save(ctx, v))
	return u, v
}

func (s *stack) seedCategory(t *testing.T, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name)
	require.NoError(t, err)
	require.NoError(t, s.categories.SaveCategory(context.Background(), c))
	return c
}

// createProduct lists a product through the catalog service so counters move
func (s *stack) createProduct(t *testing.T, vendorUser *identity.User, category *catalog.Category, name, price string) *catalogapp.ProductResponse {
	t.Helper()
	p, err := s.catalog.CreateProduct(context.Background(), vendorUser.ID, catalogapp.ProductRequest{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Inventory:  25,
		CategoryID: category.ID,
	})
	require.NoError(t, err)
	return p
}
