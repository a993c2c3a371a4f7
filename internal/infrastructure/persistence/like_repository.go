package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLikeRepository implements LikeRepository over the product_likes table
type GormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new GormLikeRepository
func NewGormLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

// Add records a like. Adding an existing like is a no-op.
func (r *GormLikeRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProductLikeModel{UserID: userID, ProductID: productID, CreatedAt: time.Now()}).Error
}

// Remove deletes a like and reports whether it existed
func (r *GormLikeRepository) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.ProductLikeModel{})
	return result.RowsAffected > 0, result.Error
}

// ProductIDsByUser lists the products a user likes, most recent first
func (r *GormLikeRepository) ProductIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := r.db.WithContext(ctx).Model(&models.ProductLikeModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("product_id", &ids).Error
	return ids, err
}

// CountByProduct counts the likes of a product
func (r *GormLikeRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductLikeModel{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// DeleteByProduct removes every like of a product
func (r *GormLikeRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.ProductLikeModel{}).Error
}

// DeleteByUser removes every like of a user
func (r *GormLikeRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ProductLikeModel{}).Error
}

// Ensure GormLikeRepository implements LikeRepository
var _ catalog.LikeRepository = (*GormLikeRepository)(nil)
