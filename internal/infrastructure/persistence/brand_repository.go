package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var (
	errBrandNotFound    = shared.NewDomainError("NOT_FOUND", "Brand not found")
	errBoutiqueNotFound = shared.NewDomainError("NOT_FOUND", "Boutique not found")
)

// GormBrandRepository implements BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindByID finds a brand by its ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	var model models.BrandModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, errBrandNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists brands, optionally filtered by a name fragment
func (r *GormBrandRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Brand, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BrandModel{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where(`folded_name LIKE ? ESCAPE '\'`, "%"+catalog.EscapeLikePattern(catalog.FoldBrandName(search))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BrandModel
	if err := query.Order(orderClause(filter, BrandSortFields, "name")).
		Scopes(paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	brands := make([]catalog.Brand, len(rows))
	for i := range rows {
		brands[i] = *rows[i].ToDomain()
	}
	return brands, total, nil
}

// ExistsByName checks for a brand with the same name ignoring case
func (r *GormBrandRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BrandModel{}).
		Where("folded_name = ?", catalog.FoldBrandName(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByID checks if a brand exists
func (r *GormBrandRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BrandModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new brand
func (r *GormBrandRepository) Create(ctx context.Context, brand *catalog.Brand) error {
	return translateError(r.db.WithContext(ctx).Create(models.BrandModelFromDomain(brand)).Error, errBrandNotFound)
}

// Save updates the name of an existing brand
func (r *GormBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	model := models.BrandModelFromDomain(brand)
	result := r.db.WithContext(ctx).Model(model).
		Select("name", "folded_name", "updated_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error, errBrandNotFound)
	}
	if result.RowsAffected == 0 {
		return errBrandNotFound
	}
	return nil
}

// Delete deletes a brand
func (r *GormBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BrandModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errBrandNotFound
	}
	return nil
}

// CountProducts counts products sold under the brand
func (r *GormBrandRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("brand_id = ?", id).Count(&count).Error
	return count, err
}

// GormBoutiqueRepository implements BoutiqueRepository using GORM
type GormBoutiqueRepository struct {
	db *gorm.DB
}

// NewGormBoutiqueRepository creates a new GormBoutiqueRepository
func NewGormBoutiqueRepository(db *gorm.DB) *GormBoutiqueRepository {
	return &GormBoutiqueRepository{db: db}
}

// FindByID finds a boutique by its ID
func (r *GormBoutiqueRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Boutique, error) {
	var model models.BoutiqueModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, errBoutiqueNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists every boutique by name
func (r *GormBoutiqueRepository) FindAll(ctx context.Context) ([]catalog.Boutique, error) {
	var rows []models.BoutiqueModel
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	boutiques := make([]catalog.Boutique, len(rows))
	for i := range rows {
		boutiques[i] = *rows[i].ToDomain()
	}
	return boutiques, nil
}

// ExistsByID checks if a boutique exists
func (r *GormBoutiqueRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BoutiqueModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new boutique
func (r *GormBoutiqueRepository) Create(ctx context.Context, boutique *catalog.Boutique) error {
	return translateError(r.db.WithContext(ctx).Create(models.BoutiqueModelFromDomain(boutique)).Error, errBoutiqueNotFound)
}

var (
	_ catalog.BrandRepository    = (*GormBrandRepository)(nil)
	_ catalog.BoutiqueRepository = (*GormBoutiqueRepository)(nil)
)
