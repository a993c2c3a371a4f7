package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errVariantNotFound = shared.NewDomainError("NOT_FOUND", "Boutique product not found")

// GormVariantRepository implements VariantRepository over the boutique_products table
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.BoutiqueProduct, error) {
	var model models.BoutiqueProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, errVariantNotFound)
	}
	return model.ToDomain(), nil
}

// FindByNaturalKey finds the variant for the (sku, boutique, size) triple
func (r *GormVariantRepository) FindByNaturalKey(ctx context.Context, sku string, boutiqueID uuid.UUID, size string) (*catalog.BoutiqueProduct, error) {
	var model models.BoutiqueProductModel
	if err := r.db.WithContext(ctx).
		Where("sku = ? AND boutique_id = ? AND size = ?", sku, boutiqueID, size).
		First(&model).Error; err != nil {
		return nil, translateError(err, errVariantNotFound)
	}
	return model.ToDomain(), nil
}

// FindBySKU returns every variant of a SKU ordered by price
func (r *GormVariantRepository) FindBySKU(ctx context.Context, sku string) ([]catalog.BoutiqueProduct, error) {
	var rows []models.BoutiqueProductModel
	if err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Order("price ASC, size ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	variants := make([]catalog.BoutiqueProduct, len(rows))
	for i := range rows {
		variants[i] = *rows[i].ToDomain()
	}
	return variants, nil
}

// LowestInStockPrice returns the cheapest in-stock price of sku, ignoring the
// variant exclude. Nil when no other variant is in stock.
func (r *GormVariantRepository) LowestInStockPrice(ctx context.Context, sku string, exclude uuid.UUID) (*decimal.Decimal, error) {
	var lowest decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&models.BoutiqueProductModel{}).
		Select("MIN(price)").
		Where("sku = ? AND quantity > 0 AND id <> ?", sku, exclude).
		Row().Scan(&lowest); err != nil {
		return nil, err
	}
	if !lowest.Valid {
		return nil, nil
	}
	return &lowest.Decimal, nil
}

// LowestPricesBySize returns the cheapest in-stock price per size of sku
func (r *GormVariantRepository) LowestPricesBySize(ctx context.Context, sku string) ([]catalog.SizePrice, error) {
	var rows []struct {
		Size  string
		Price decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.BoutiqueProductModel{}).
		Select("size, MIN(price) AS price").
		Where("sku = ? AND quantity > 0", sku).
		Group("size").
		Order("size ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	prices := make([]catalog.SizePrice, len(rows))
	for i, row := range rows {
		prices[i] = catalog.SizePrice{Size: row.Size, Price: row.Price}
	}
	return prices, nil
}

// Create inserts a new variant
func (r *GormVariantRepository) Create(ctx context.Context, variant *catalog.BoutiqueProduct) error {
	return translateError(r.db.WithContext(ctx).Create(models.BoutiqueProductModelFromDomain(variant)).Error, errVariantNotFound)
}

// Upsert writes variant on its (sku, boutique_id, size) key with
// INSERT ... ON CONFLICT DO UPDATE. A row inserted by another writer after the
// locking read is overwritten, not reported as a duplicate.
func (r *GormVariantRepository) Upsert(ctx context.Context, variant *catalog.BoutiqueProduct) (stored, prior *catalog.BoutiqueProduct, err error) {
	db := r.db.WithContext(ctx)

	var existing models.BoutiqueProductModel
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sku = ? AND boutique_id = ? AND size = ?", variant.SKU, variant.BoutiqueID, variant.Size).
		Take(&existing).Error
	switch {
	case err == nil:
		prior = existing.ToDomain()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, err
	}

	if variant.UpdatedAt.IsZero() {
		variant.UpdatedAt = time.Now()
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}, {Name: "boutique_id"}, {Name: "size"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "quantity", "updated_at"}),
	}).Create(models.BoutiqueProductModelFromDomain(variant)).Error; err != nil {
		return nil, nil, err
	}

	stored, err = r.FindByNaturalKey(ctx, variant.SKU, variant.BoutiqueID, variant.Size)
	if err != nil {
		return nil, nil, err
	}
	return stored, prior, nil
}

// Save updates the price and quantity of an existing variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.BoutiqueProduct) error {
	if variant.UpdatedAt.IsZero() {
		variant.UpdatedAt = time.Now()
	}
	result := r.db.WithContext(ctx).Model(&models.BoutiqueProductModel{}).
		Where("id = ?", variant.ID).
		Updates(map[string]any{
			"price":      variant.Price,
			"quantity":   variant.Quantity,
			"updated_at": variant.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errVariantNotFound
	}
	return nil
}

// Delete deletes a variant
func (r *GormVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BoutiqueProductModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errVariantNotFound
	}
	return nil
}

// DeleteBySKU deletes every variant of a SKU
func (r *GormVariantRepository) DeleteBySKU(ctx context.Context, sku string) (int64, error) {
	result := r.db.WithContext(ctx).Where("sku = ?", sku).Delete(&models.BoutiqueProductModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormVariantRepository implements VariantRepository
var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
