package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindCategoryByID finds a category by ID
func (r *GormCategoryRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Category not found")
	}
	return model.ToDomain(), nil
}

// FindSubcategoryByID finds a subcategory by ID
func (r *GormCategoryRepository) FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Subcategory, error) {
	var model models.SubcategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Subcategory not found")
	}
	return model.ToDomain(), nil
}

// SaveCategory creates or updates a category. The product counter is owned by
// the counter repository and never written here.
func (r *GormCategoryRepository) SaveCategory(ctx context.Context, category *catalog.Category) error {
	err := r.db.WithContext(ctx).Omit("product_count").Save(models.CategoryModelFromDomain(category)).Error
	return duplicateOr(err, "Category slug already in use")
}

// SaveSubcategory creates or updates a subcategory
func (r *GormCategoryRepository) SaveSubcategory(ctx context.Context, subcategory *catalog.Subcategory) error {
	return r.db.WithContext(ctx).Omit("product_count").Save(models.SubcategoryModelFromDomain(subcategory)).Error
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
