package persistence

import (
	"context"

	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"github.com/shopmall/backend/internal/infrastructure/telemetry"
	"gorm.io/gorm"
)

// GormCatalogMetricsProvider answers the catalog gauge queries of
// telemetry.BusinessMetrics.
type GormCatalogMetricsProvider struct {
	db *gorm.DB
}

// NewGormCatalogMetricsProvider creates a new GormCatalogMetricsProvider
func NewGormCatalogMetricsProvider(db *gorm.DB) *GormCatalogMetricsProvider {
	return &GormCatalogMetricsProvider{db: db}
}

// CountOutOfStockVariants counts boutique products with no stock left
func (p *GormCatalogMetricsProvider) CountOutOfStockVariants(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.BoutiqueProductModel{}).Where("quantity <= 0").Count(&count).Error
	return count, err
}

// CountProductsByBrand counts products per brand name
func (p *GormCatalogMetricsProvider) CountProductsByBrand(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Name  string
		Total int64
	}
	if err := p.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select("brands.name AS name, COUNT(*) AS total").
		Joins("JOIN brands ON brands.id = products.brand_id").
		Group("brands.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Total
	}
	return counts, nil
}

// Ensure GormCatalogMetricsProvider implements CatalogMetricsProvider
var _ telemetry.CatalogMetricsProvider = (*GormCatalogMetricsProvider)(nil)
