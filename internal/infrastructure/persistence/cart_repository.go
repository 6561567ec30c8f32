package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/cart"
	"github.com/multimart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUserID finds the cart of a user with its lines in insertion order
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err, "Cart not found")
	}
	return model.ToDomain(), nil
}

// FindItemOwner returns the user owning the cart that holds itemID
func (r *GormCartRepository) FindItemOwner(ctx context.Context, itemID uuid.UUID) (uuid.UUID, error) {
	var owner struct {
		UserID uuid.UUID
	}
	if err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("carts.user_id").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ?", itemID).
		Take(&owner).Error; err != nil {
		return uuid.Nil, notFoundOr(err, "Cart item not found")
	}
	return owner.UserID, nil
}

// Save inserts a new cart together with its items
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	model := models.CartModelFromDomain(c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return duplicateOr(err, "User already has a cart")
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// SaveWithLock updates the cart with a version check and syncs its items
func (r *GormCartRepository) SaveWithLock(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := currentVersion(tx, &models.CartModel{}, c.ID, "Cart not found")
		if err != nil {
			return err
		}
		if stored != c.Version {
			return conflict("cart")
		}

		nextVersion := c.Version + 1
		now := time.Now()
		totals := models.TotalsColumnsFromDomain(c.Totals)
		result := tx.Model(&models.CartModel{}).
			Where("id = ? AND version = ?", c.ID, stored).
			Updates(map[string]any{
				"coupon_code": c.CouponCode,
				"total_items": c.TotalItems,
				"subtotal":    totals.Subtotal,
				"tax":         totals.Tax,
				"shipping":    totals.Shipping,
				"discount":    totals.Discount,
				"total":       totals.Total,
				"version":     nextVersion,
				"updated_at":  now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return conflict("cart")
		}

		if err := syncCartItems(tx, c); err != nil {
			return err
		}

		c.Version = nextVersion
		c.UpdatedAt = now
		return nil
	})
}

// syncCartItems deletes lines no longer in the cart and upserts the rest
func syncCartItems(tx *gorm.DB, c *cart.Cart) error {
	ids := make([]uuid.UUID, len(c.Items))
	for i := range c.Items {
		ids[i] = c.Items[i].ID
	}

	stale := tx.Where("cart_id = ?", c.ID)
	if len(ids) > 0 {
		stale = stale.Where("id NOT IN ?", ids)
	}
	if err := stale.Delete(&models.CartItemModel{}).Error; err != nil {
		return err
	}

	for i := range c.Items {
		var item models.CartItemModel
		item.FromDomain(c.ID, c.Items[i])
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ cart.CartRepository = (*GormCartRepository)(nil)
