package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errProductNotFound = shared.NewDomainError("NOT_FOUND", "Product not found")

// productSearchClauses maps every search option to the one clause it adds.
// An option without a clause here is a programming error caught by tests.
var productSearchClauses = map[catalog.ProductSearchOption]func(*gorm.DB, catalog.ProductSearch) *gorm.DB{
	catalog.SearchByCategory: func(db *gorm.DB, s catalog.ProductSearch) *gorm.DB {
		if len(s.CategoryKeys) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where("products.category_key IN ?", s.CategoryKeys)
	},
	catalog.SearchByName: func(db *gorm.DB, s catalog.ProductSearch) *gorm.DB {
		pattern := "%" + catalog.EscapeLikePattern(strings.ToLower(strings.TrimSpace(s.Name))) + "%"
		return db.Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, pattern)
	},
	catalog.SearchByBrand: func(db *gorm.DB, s catalog.ProductSearch) *gorm.DB {
		folded := make([]string, len(s.BrandNames))
		for i, name := range s.BrandNames {
			folded[i] = catalog.FoldBrandName(name)
		}
		return db.Joins("JOIN brands ON brands.id = products.brand_id").
			Where("brands.folded_name IN ?", folded)
	},
	catalog.SearchByLessPrice: func(db *gorm.DB, s catalog.ProductSearch) *gorm.DB {
		return db.Where("products.lowest_price <= ?", *s.LessPrice)
	},
	catalog.SearchByMorePrice: func(db *gorm.DB, s catalog.ProductSearch) *gorm.DB {
		return db.Where("products.lowest_price >= ?", *s.MorePrice)
	},
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, errProductNotFound)
	}
	return model.ToDomain(), nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&model).Error; err != nil {
		return nil, translateError(err, errProductNotFound)
	}
	return model.ToDomain(), nil
}

// Search finds the products matching a resolved search, ordered by SKU
func (r *GormProductRepository) Search(ctx context.Context, search catalog.ProductSearch) ([]catalog.Product, int64, error) {
	search.Normalize()

	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	for _, opt := range search.Active() {
		query = productSearchClauses[opt](query, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	if err := query.Select("products.*").
		Order("products.sku ASC").
		Offset(search.Offset()).
		Limit(search.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, total, nil
}

// ExistsBySKU checks if a product with the given SKU exists
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("sku = ?", sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error, errProductNotFound)
}

// Save updates the catalog fields of an existing product with optimistic
// locking. On success the product's version is incremented. lowest_price is
// owned by SaveLowestPrice and left as stored.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	model.Version = product.Version + 1
	model.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(model).
		Where("version = ?", product.Version).
		Select("name", "description", "brand_id", "category_key", "thumbnail", "images", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error, errProductNotFound)
	}
	if result.RowsAffected == 0 {
		return r.conflictOrMissing(ctx, product.ID)
	}

	product.Version = model.Version
	product.UpdatedAt = model.UpdatedAt
	return nil
}

// SaveLowestPrice overwrites lowest_price without a version check. Pricing
// writes run inside the transaction that changed the variants.
func (r *GormProductRepository) SaveLowestPrice(ctx context.Context, id uuid.UUID, price *decimal.Decimal) error {
	lowest := decimal.NullDecimal{}
	if price != nil {
		lowest = decimal.NewNullDecimal(*price)
	}
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"lowest_price": lowest,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errProductNotFound
	}
	return nil
}

func (r *GormProductRepository) conflictOrMissing(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errProductNotFound
	}
	return shared.ErrConcurrencyConflict
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errProductNotFound
	}
	return nil
}

// DetachCategories clears the category of every product in the given categories
func (r *GormProductRepository) DetachCategories(ctx context.Context, categoryKeys []uuid.UUID) (int64, error) {
	if len(categoryKeys) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("category_key IN ?", categoryKeys).
		Updates(map[string]any{
			"category_key": nil,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   time.Now(),
		})
	return result.RowsAffected, result.Error
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
