package persistence

import (
	"context"
	"testing"

	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/infrastructure/persistence/models"
	"github.com/multimart/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens a private in-memory database with the full schema.
// A single connection keeps every statement on the same memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// catalogSeed is a vendor with one category, one subcategory and one product
type catalogSeed struct {
	vendor      *catalog.Vendor
	category    *catalog.Category
	subcategory *catalog.Subcategory
	product     *catalog.Product
}

func seedCatalog(t *testing.T, db *gorm.DB) catalogSeed {
	t.Helper()
	ctx := context.Background()

	vendor := testutil.NewApprovedVendor(t, "Loom House")
	require.NoError(t, NewGormVendorRepository(db).Save(ctx, vendor))

	category, err := catalog.NewCategory("Home Decor")
	require.NoError(t, err)
	subcategory, err := catalog.NewSubcategory(category.ID, "Rugs")
	require.NoError(t, err)
	categories := NewGormCategoryRepository(db)
	require.NoError(t, categories.SaveCategory(ctx, category))
	require.NoError(t, categories.SaveSubcategory(ctx, subcategory))

	product := testutil.NewProduct(t, vendor, "jute-rug", "1499.50")
	product.CategoryID = category.ID
	product.SubcategoryID = &subcategory.ID
	require.NoError(t, NewGormProductRepository(db).Create(ctx, product))

	return catalogSeed{vendor: vendor, category: category, subcategory: subcategory, product: product}
}
