package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/trade"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errOrderNotFound = shared.NewDomainError("NOT_FOUND", "Order not found")

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadOrderItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(preloadOrderItems).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, errOrderNotFound)
	}
	return model.ToDomain(), nil
}

// FindByUser lists the orders of a user, newest first by default
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := query.Scopes(preloadOrderItems, paginate(filter)).
		Order(orderClause(filter, OrderSortFields, "created_at")).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Create inserts an order and its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return translateError(r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error, errOrderNotFound)
}

// SaveWithLock saves status changes with optimistic locking (version check).
// Items are an immutable snapshot and are never rewritten.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	nextVersion := order.Version + 1
	now := time.Now()

	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"status":          int(order.Status),
			"tracking_number": order.TrackingNumber,
			"version":         nextVersion,
			"updated_at":      now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errOrderNotFound
		}
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "The order has been modified by another user")
	}

	order.Version = nextVersion
	order.UpdatedAt = now
	return nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
