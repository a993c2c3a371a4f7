package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errCategoryNotFound = shared.NewDomainError("NOT_FOUND", "Category not found")

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its display id
func (r *GormCategoryRepository) FindByID(ctx context.Context, id string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, errCategoryNotFound)
	}
	return model.ToDomain(), nil
}

// FindByKey finds a category by its internal key
func (r *GormCategoryRepository) FindByKey(ctx context.Context, key uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).Where("category_key = ?", key).First(&model).Error; err != nil {
		return nil, translateError(err, errCategoryNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll returns every category ordered by path and id
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("path ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

// FindChildren finds the categories whose path equals path exactly
func (r *GormCategoryRepository) FindChildren(ctx context.Context, path string) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("path = ?", path).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

// FindDescendants finds every category whose path contains id as a whole
// segment. LIKE narrows the rows in SQL; PathHasSegment confirms each match
// because LIKE may ignore case or collation differences.
func (r *GormCategoryRepository) FindDescendants(ctx context.Context, id string) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where(`path LIKE ? ESCAPE '\'`, catalog.SegmentLikePattern(id)).
		Order("path ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	matched := rows[:0]
	for _, row := range rows {
		if catalog.PathHasSegment(row.Path, id) {
			matched = append(matched, row)
		}
	}
	return toCategories(matched), nil
}

// ExistsByID checks if a category with the given display id exists
func (r *GormCategoryRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new category
func (r *GormCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	return translateError(r.db.WithContext(ctx).Create(models.CategoryModelFromDomain(category)).Error, errCategoryNotFound)
}

// Save updates the id and path of an existing category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	if category.UpdatedAt.IsZero() {
		category.UpdatedAt = time.Now()
	}
	result := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("category_key = ?", category.Key).
		Updates(map[string]any{
			"id":         category.ID,
			"path":       category.Path,
			"updated_at": category.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, errCategoryNotFound)
	}
	if result.RowsAffected == 0 {
		return errCategoryNotFound
	}
	return nil
}

// DeleteByKeys deletes the categories with the given keys and returns the number removed
func (r *GormCategoryRepository) DeleteByKeys(ctx context.Context, keys []uuid.UUID) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("category_key IN ?", keys).Delete(&models.CategoryModel{})
	return result.RowsAffected, result.Error
}

func toCategories(rows []models.CategoryModel) []catalog.Category {
	categories := make([]catalog.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
