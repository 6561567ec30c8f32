package persistence

import (
	"context"
	"fmt"

	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// counterTables maps each counter kind to the table holding its product_count
var counterTables = map[catalog.CounterKind]string{
	catalog.CounterVendor:      "vendors",
	catalog.CounterCategory:    "categories",
	catalog.CounterSubcategory: "subcategories",
}

// GormCounterRepository applies product counter adjustments with guarded
// UPDATE statements, so concurrent adjustments never lose an increment
type GormCounterRepository struct {
	db *gorm.DB
}

// NewGormCounterRepository creates a new GormCounterRepository
func NewGormCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

// Apply applies all adjustments or none of them
func (r *GormCounterRepository) Apply(ctx context.Context, adjustments ...catalog.CounterAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, adj := range adjustments {
			if err := applyAdjustment(tx, adj); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyAdjustment(tx *gorm.DB, adj catalog.CounterAdjustment) error {
	table, ok := counterTables[adj.Kind]
	if !ok {
		return fmt.Errorf("unknown counter kind %q", adj.Kind)
	}

	result := tx.Table(table).
		Where("id = ? AND product_count + ? >= 0", adj.ID, adj.Delta).
		UpdateColumn("product_count", gorm.Expr("product_count + ?", adj.Delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var exists int64
	if err := tx.Table(table).Where("id = ?", adj.ID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return shared.NotFound(fmt.Sprintf("%s %s not found", kindLabel(adj.Kind), adj.ID))
	}
	return catalog.ErrCounterUnderflow
}

func kindLabel(kind catalog.CounterKind) string {
	switch kind {
	case catalog.CounterVendor:
		return "Vendor"
	case catalog.CounterCategory:
		return "Category"
	default:
		return "Subcategory"
	}
}

var _ catalog.CounterRepository = (*GormCounterRepository)(nil)
