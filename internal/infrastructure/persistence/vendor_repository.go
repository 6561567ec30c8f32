package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Vendor, error) {
	var model models.VendorModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Vendor not found")
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the vendor account of a user
func (r *GormVendorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*catalog.Vendor, error) {
	var model models.VendorModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "Vendor not found")
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the vendors found among ids
func (r *GormVendorRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Vendor, error) {
	result := make(map[uuid.UUID]*catalog.Vendor, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.VendorModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = rows[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a vendor without touching its product counter
func (r *GormVendorRepository) Save(ctx context.Context, vendor *catalog.Vendor) error {
	err := r.db.WithContext(ctx).Omit("product_count").Save(models.VendorModelFromDomain(vendor)).Error
	return duplicateOr(err, "User already has a vendor account")
}

var _ catalog.VendorRepository = (*GormVendorRepository)(nil)
