package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/order"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeTestOrder(t *testing.T, repo *GormOrderRepository, userID uuid.UUID, lines ...order.LineSpec) *order.Order {
	t.Helper()
	customer := testutil.NewUser(t, "asha")
	o, err := order.PlaceOrder(order.PlaceOrderParams{
		UserID:          userID,
		Lines:           lines,
		ShippingAddress: customer.Address,
		BillingAddress:  customer.Address,
		PaymentMethod:   "COD",
	}, pricing.NewDefaultCalculator())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func line(t *testing.T, vendor *catalog.Vendor, name, price string, qty int) order.LineSpec {
	t.Helper()
	return order.LineSpec{Product: testutil.NewProduct(t, vendor, name, price).Snapshot(vendor), Quantity: qty}
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	vendor := testutil.NewApprovedVendor(t, "Clay Works")

	o := placeTestOrder(t, repo, uuid.New(), line(t, vendor, "mug", "250", 2), line(t, vendor, "plate", "400", 1))

	byID, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, byID.OrderNumber)
	assert.Equal(t, order.OrderStatusPending, byID.Status)
	assert.Len(t, byID.Items, 2)
	assert.Equal(t, "Bengaluru", byID.ShippingAddress.City())
	assert.True(t, o.Totals.Total.Equal(byID.Totals.Total))

	byNumber, err := repo.FindByOrderNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, byNumber.ID)

	_, err = repo.FindByOrderNumber(ctx, "ORD-00000000")
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	t.Run("duplicate order number", func(t *testing.T) {
		dup, err := order.PlaceOrder(order.PlaceOrderParams{
			OrderNumber:   o.OrderNumber,
			UserID:        uuid.New(),
			Lines:         []order.LineSpec{line(t, vendor, "bowl", "90", 1)},
			PaymentMethod: "COD",
		}, pricing.NewDefaultCalculator())
		require.NoError(t, err)
		err = repo.Create(ctx, dup)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})
}

func TestGormOrderRepository_Listings(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	clay := testutil.NewApprovedVendor(t, "Clay Works")
	loom := testutil.NewApprovedVendor(t, "Loom House")
	customer := uuid.New()

	first := placeTestOrder(t, repo, customer, line(t, clay, "mug", "250", 1))
	time.Sleep(5 * time.Millisecond)
	mixed := placeTestOrder(t, repo, customer, line(t, clay, "vase", "800", 1), line(t, loom, "rug", "1500", 1))
	time.Sleep(5 * time.Millisecond)
	placeTestOrder(t, repo, uuid.New(), line(t, loom, "throw", "700", 1))

	require.NoError(t, db.Table("orders").Where("id = ?", mixed.ID).Update("status", order.OrderStatusShipped).Error)

	t.Run("user orders newest first", func(t *testing.T) {
		orders, total, err := repo.FindByUser(ctx, customer, order.OrderFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, orders, 2)
		assert.Equal(t, mixed.ID, orders[0].ID)
		assert.Equal(t, first.ID, orders[1].ID)
	})

	t.Run("status filter and paging", func(t *testing.T) {
		shipped := order.OrderStatusShipped
		orders, total, err := repo.FindByUser(ctx, customer, order.OrderFilter{
			Filter: shared.Filter{Page: 1, PageSize: 1},
			Status: &shipped,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, mixed.ID, orders[0].ID)

		_, total, err = repo.FindByUser(ctx, customer, order.OrderFilter{Filter: shared.Filter{Page: 2, PageSize: 1}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("vendor sees orders holding one of its lines", func(t *testing.T) {
		orders, total, err := repo.FindByVendor(ctx, loom.ID, order.OrderFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, orders, 2)
		assert.NotEqual(t, first.ID, orders[0].ID)
		assert.NotEqual(t, first.ID, orders[1].ID)

		orders, total, err = repo.FindByVendor(ctx, clay.ID, order.OrderFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		// every line is returned, not only the vendor's own
		assert.Len(t, orders[0].Items, 2)
	})
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	vendor := testutil.NewApprovedVendor(t, "Clay Works")
	o := placeTestOrder(t, repo, uuid.New(), line(t, vendor, "mug", "250", 1))

	stale, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)

	require.NoError(t, o.TransitionTo(order.OrderStatusProcessing, "vendor"))
	require.NoError(t, repo.SaveWithLock(ctx, o))
	assert.Equal(t, 2, o.Version)

	require.NoError(t, stale.Cancel("customer"))
	err = repo.SaveWithLock(ctx, stale)
	assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))

	loaded, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusProcessing, loaded.Status)
	assert.Len(t, loaded.Items, 1)
}
