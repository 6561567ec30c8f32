package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormProductRepository(t *testing.T) {
	db := newSQLiteDB(t)
	seed := seedCatalog(t, db)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	loaded, err := repo.FindByID(ctx, seed.product.ID)
	require.NoError(t, err)
	assert.Equal(t, seed.product.Images, loaded.Images)
	require.NotNil(t, loaded.SubcategoryID)
	assert.Equal(t, seed.subcategory.ID, *loaded.SubcategoryID)

	loaded.Price = decimal.NewFromInt(1299)
	loaded.SubcategoryID = nil
	require.NoError(t, repo.SaveWithLock(ctx, loaded))
	assert.Equal(t, 2, loaded.Version)
	updated, err := repo.FindByID(ctx, seed.product.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1299).Equal(updated.Price))
	assert.Nil(t, updated.SubcategoryID)
	assert.Equal(t, seed.product.Images, updated.Images)
	assert.Equal(t, 2, updated.Version)

	missing := uuid.New()
	found, err := repo.FindByIDs(ctx, []uuid.UUID{seed.product.ID, missing})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, seed.product.ID)

	assert.Equal(t, int64(1), countVendorProducts(t, db, seed.vendor.ID))

	require.NoError(t, repo.DeleteWithLock(ctx, updated))
	_, err = repo.FindByID(ctx, seed.product.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.True(t, errors.Is(repo.DeleteWithLock(ctx, updated), shared.ErrNotFound))
}

func TestGormProductRepository_VersionChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("stale update after delete does not recreate the product", func(t *testing.T) {
		db := newSQLiteDB(t)
		seed := seedCatalog(t, db)
		repo := NewGormProductRepository(db)
		counters := NewGormCounterRepository(db)
		require.NoError(t, counters.Apply(ctx, catalog.AdjustmentsForCreate(seed.product)...))

		stale, err := repo.FindByID(ctx, seed.product.ID)
		require.NoError(t, err)

		current, err := repo.FindByID(ctx, seed.product.ID)
		require.NoError(t, err)
		require.NoError(t, repo.DeleteWithLock(ctx, current))
		require.NoError(t, counters.Apply(ctx, catalog.AdjustmentsForDelete(current)...))

		stale.Name = "Jute Mat"
		err = repo.SaveWithLock(ctx, stale)

		assert.True(t, errors.Is(err, shared.ErrNotFound), err)
		assert.Equal(t, int64(0), countVendorProducts(t, db, seed.vendor.ID))
		assertCounts(t, db, seed, 0, 0, 0)
	})

	t.Run("second writer of the same version conflicts", func(t *testing.T) {
		db := newSQLiteDB(t)
		seed := seedCatalog(t, db)
		repo := NewGormProductRepository(db)

		first, err := repo.FindByID(ctx, seed.product.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, seed.product.ID)
		require.NoError(t, err)

		first.SubcategoryID = nil
		require.NoError(t, repo.SaveWithLock(ctx, first))

		second.Name = "Wool Rug"
		err = repo.SaveWithLock(ctx, second)
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict), err)

		err = repo.DeleteWithLock(ctx, second)
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict), err)

		stored, err := repo.FindByID(ctx, seed.product.ID)
		require.NoError(t, err)
		assert.Equal(t, "jute-rug", stored.Name)
		assert.Nil(t, stored.SubcategoryID)
	})
}

func TestGormVendorAndCategoryRepositories(t *testing.T) {
	db := newSQLiteDB(t)
	seed := seedCatalog(t, db)
	ctx := context.Background()
	vendors := NewGormVendorRepository(db)
	categories := NewGormCategoryRepository(db)

	v, err := vendors.FindByUserID(ctx, seed.vendor.UserID)
	require.NoError(t, err)
	assert.Equal(t, seed.vendor.ID, v.ID)
	assert.True(t, v.IsApproved())

	byIDs, err := vendors.FindByIDs(ctx, []uuid.UUID{seed.vendor.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	second, err := catalog.NewVendor(seed.vendor.UserID, "Second Store")
	require.NoError(t, err)
	assert.True(t, errors.Is(vendors.Save(ctx, second), shared.ErrAlreadyExists))

	sub, err := categories.FindSubcategoryByID(ctx, seed.subcategory.ID)
	require.NoError(t, err)
	assert.True(t, sub.BelongsTo(seed.category.ID))

	_, err = categories.FindCategoryByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	t.Run("saving an entity never overwrites its counter", func(t *testing.T) {
		require.NoError(t, NewGormCounterRepository(db).Apply(ctx,
			catalog.CounterAdjustment{Kind: catalog.CounterCategory, ID: seed.category.ID, Delta: 3}))

		stale := *seed.category
		stale.Name = "Home & Decor"
		require.NoError(t, categories.SaveCategory(ctx, &stale))

		c, err := categories.FindCategoryByID(ctx, seed.category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Home & Decor", c.Name)
		assert.Equal(t, 3, c.ProductCount)
	})
}

func TestGormCounterRepository_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("applies every adjustment", func(t *testing.T) {
		db := newSQLiteDB(t)
		seed := seedCatalog(t, db)
		repo := NewGormCounterRepository(db)

		require.NoError(t, repo.Apply(ctx, catalog.AdjustmentsForCreate(seed.product)...))
		require.NoError(t, repo.Apply(ctx, catalog.AdjustmentsForCreate(seed.product)...))

		assertCounts(t, db, seed, 2, 2, 2)
	})

	t.Run("underflow rolls back the whole batch", func(t *testing.T) {
		db := newSQLiteDB(t)
		seed := seedCatalog(t, db)
		repo := NewGormCounterRepository(db)
		require.NoError(t, repo.Apply(ctx,
			catalog.CounterAdjustment{Kind: catalog.CounterVendor, ID: seed.vendor.ID, Delta: 1},
			catalog.CounterAdjustment{Kind: catalog.CounterCategory, ID: seed.category.ID, Delta: 1},
		))

		err := repo.Apply(ctx, catalog.AdjustmentsForDelete(seed.product)...)

		assert.Equal(t, "COUNTER_UNDERFLOW", shared.ErrorCode(err))
		assertCounts(t, db, seed, 1, 1, 0)
	})

	t.Run("missing target", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormCounterRepository(db)

		err := repo.Apply(ctx, catalog.CounterAdjustment{Kind: catalog.CounterSubcategory, ID: uuid.New(), Delta: 1})

		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("unknown kind", func(t *testing.T) {
		db := newSQLiteDB(t)
		err := NewGormCounterRepository(db).Apply(ctx, catalog.CounterAdjustment{Kind: "BRAND", ID: uuid.New(), Delta: 1})
		assert.Error(t, err)
	})
}

func assertCounts(t *testing.T, db *gorm.DB, seed catalogSeed, vendor, category, subcategory int) {
	t.Helper()
	ctx := context.Background()

	v, err := NewGormVendorRepository(db).FindByID(ctx, seed.vendor.ID)
	require.NoError(t, err)
	c, err := NewGormCategoryRepository(db).FindCategoryByID(ctx, seed.category.ID)
	require.NoError(t, err)
	s, err := NewGormCategoryRepository(db).FindSubcategoryByID(ctx, seed.subcategory.ID)
	require.NoError(t, err)

	assert.Equal(t, vendor, v.ProductCount, "vendor")
	assert.Equal(t, category, c.ProductCount, "category")
	assert.Equal(t, subcategory, s.ProductCount, "subcategory")
}

func countVendorProducts(t *testing.T, db *gorm.DB, vendorID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.ProductModel{}).Where("vendor_id = ?", vendorID).Count(&n).Error)
	return n
}
