package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the products found among ids. Missing ids are simply absent.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	result := make(map[uuid.UUID]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = rows[i].ToDomain()
	}
	return result, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error
}

// SaveWithLock updates an existing product with a version check. It never
// inserts, so a product deleted meanwhile is reported instead of recreated.
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	model.Version = product.Version + 1
	model.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(model).
		Where("version = ?", product.Version).
		Select("category_id", "subcategory_id", "name", "description", "price",
			"images", "inventory", "sku", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrConflict(ctx, product.ID)
	}
	product.Version = model.Version
	product.UpdatedAt = model.UpdatedAt
	return nil
}

// DeleteWithLock removes a product if it still has the version the caller loaded
func (r *GormProductRepository) DeleteWithLock(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Delete(&models.ProductModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrConflict(ctx, product.ID)
	}
	return nil
}

func (r *GormProductRepository) missingOrConflict(ctx context.Context, id uuid.UUID) error {
	if _, err := currentVersion(r.db.WithContext(ctx), &models.ProductModel{}, id, "Product not found"); err != nil {
		return err
	}
	return conflict("product")
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
