package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/order"
	"github.com/multimart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return r.findOne(ctx, "order_number = ?", orderNumber)
}

func (r *GormOrderRepository) findOne(ctx context.Context, query string, arg any) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where(query, arg).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	return model.ToDomain(), nil
}

// FindByUser lists the orders placed by a user
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter order.OrderFilter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("user_id = ?", userID)
	return r.list(query, filter)
}

// FindByVendor lists the orders holding at least one line of a vendor
func (r *GormOrderRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter order.OrderFilter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id AND order_items.vendor_id = ?)", vendorID)
	return r.list(query, filter)
}

func (r *GormOrderRepository) list(query *gorm.DB, filter order.OrderFilter) ([]order.Order, int64, error) {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f := filter.Normalize()
	sortField := ValidateSortField(f.OrderBy, OrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(f.OrderDir)

	var rows []models.OrderModel
	if err := query.
		Preload("Items").
		Order(sortField + " " + sortOrder).
		Order("id " + sortOrder).
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Create inserts a new order and its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return duplicateOr(err, "Order number already in use")
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// SaveWithLock persists status changes with an optimistic version check.
// Order lines are immutable after placement and are not rewritten.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := currentVersion(tx, &models.OrderModel{}, o.ID, "Order not found")
		if err != nil {
			return err
		}
		if stored != o.Version {
			return conflict("order")
		}

		nextVersion := o.Version + 1
		now := time.Now()
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", o.ID, stored).
			Updates(map[string]any{
				"status":         o.Status,
				"payment_status": o.PaymentStatus,
				"notes":          o.Notes,
				"version":        nextVersion,
				"updated_at":     now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return conflict("order")
		}

		o.Version = nextVersion
		o.UpdatedAt = now
		return nil
	})
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)
