package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/trade"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
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

// FindByUser loads the cart of a user. A user without a stored cart gets an empty one.
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*trade.Cart, error) {
	var model models.CartModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return trade.NewCart(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save replaces the stored lines and total of the cart. Callers that need the
// header and lines written atomically run it inside a transaction scope.
func (r *GormCartRepository) Save(ctx context.Context, cart *trade.Cart) error {
	model := models.CartModelFromDomain(cart)
	items := model.Items
	model.Items = nil

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_price", "updated_at"}),
	}).Create(model).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", cart.UserID).Delete(&models.CartItemModel{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// DeleteByUser removes the cart of a user
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&models.CartItemModel{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", userID).Delete(&models.CartModel{}).Error
}

// Ensure GormCartRepository implements CartRepository
var _ trade.CartRepository = (*GormCartRepository)(nil)
