package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for the Category domain entity.
// The display id is unique and may change; the key never does.
type CategoryModel struct {
	Key       uuid.UUID `gorm:"column:category_key;type:uuid;primaryKey"`
	ID        string    `gorm:"column:id;type:varchar(50);not null;uniqueIndex:idx_categories_id"`
	Path      string    `gorm:"type:varchar(1000);not null;index:idx_categories_path"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		Key:       m.Key,
		ID:        m.ID,
		Path:      m.Path,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	return &CategoryModel{
		Key:       c.Key,
		ID:        c.ID,
		Path:      c.Path,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	SKU         string              `gorm:"column:sku;type:varchar(50);not null;uniqueIndex:idx_products_sku"`
	Name        string              `gorm:"type:varchar(200);not null;index:idx_products_name"`
	Description string              `gorm:"type:text"`
	BrandID     uuid.UUID           `gorm:"type:uuid;not null;index:idx_products_brand"`
	CategoryKey *uuid.UUID          `gorm:"type:uuid;index:idx_products_category"`
	Thumbnail   string              `gorm:"type:varchar(500)"`
	Images      []string            `gorm:"type:text;serializer:json"`
	LowestPrice decimal.NullDecimal `gorm:"type:decimal(12,2);index:idx_products_lowest_price"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SKU:               m.SKU,
		Name:              m.Name,
		Description:       m.Description,
		BrandID:           m.BrandID,
		CategoryKey:       m.CategoryKey,
		Thumbnail:         m.Thumbnail,
		Images:            m.Images,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if m.LowestPrice.Valid {
		price := m.LowestPrice.Decimal
		p.LowestPrice = &price
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SKU = p.SKU
	m.Name = p.Name
	m.Description = p.Description
	m.BrandID = p.BrandID
	m.CategoryKey = p.CategoryKey
	m.Thumbnail = p.Thumbnail
	m.Images = p.Images
	m.LowestPrice = decimal.NullDecimal{}
	if p.LowestPrice != nil {
		m.LowestPrice = decimal.NewNullDecimal(*p.LowestPrice)
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// BoutiqueProductModel is the persistence model for a boutique's offer of a
// product size. (sku, boutique_id, size) is unique.
type BoutiqueProductModel struct {
	BaseModel
	SKU        string          `gorm:"column:sku;type:varchar(50);not null;uniqueIndex:idx_boutique_products_natural,priority:1;index:idx_boutique_products_sku_stock,priority:1"`
	BoutiqueID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_boutique_products_natural,priority:2"`
	Size       string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_boutique_products_natural,priority:3"`
	Quantity   int             `gorm:"not null;default:0;index:idx_boutique_products_sku_stock,priority:2"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (BoutiqueProductModel) TableName() string {
	return "boutique_products"
}

// ToDomain converts the persistence model to a domain BoutiqueProduct entity.
func (m *BoutiqueProductModel) ToDomain() *catalog.BoutiqueProduct {
	return &catalog.BoutiqueProduct{
		BaseEntity: m.BaseModel.ToDomain(),
		SKU:        m.SKU,
		BoutiqueID: m.BoutiqueID,
		Size:       m.Size,
		Quantity:   m.Quantity,
		Price:      m.Price,
	}
}

// BoutiqueProductModelFromDomain creates a new persistence model from a domain BoutiqueProduct.
func BoutiqueProductModelFromDomain(v *catalog.BoutiqueProduct) *BoutiqueProductModel {
	m := &BoutiqueProductModel{
		SKU:        v.SKU,
		BoutiqueID: v.BoutiqueID,
		Size:       v.Size,
		Quantity:   v.Quantity,
		Price:      v.Price,
	}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}

// BrandModel is the persistence model for the Brand domain entity.
// Names are unique ignoring case.
type BrandModel struct {
	BaseModel
	Name       string `gorm:"type:varchar(100);not null"`
	FoldedName string `gorm:"type:varchar(100);not null;uniqueIndex:idx_brands_folded_name"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the persistence model to a domain Brand entity.
func (m *BrandModel) ToDomain() *catalog.Brand {
	return &catalog.Brand{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// BrandModelFromDomain creates a new persistence model from a domain Brand entity.
func BrandModelFromDomain(b *catalog.Brand) *BrandModel {
	m := &BrandModel{Name: b.Name, FoldedName: b.FoldedName()}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}

// BoutiqueModel is the persistence model for the Boutique domain entity.
type BoutiqueModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (BoutiqueModel) TableName() string {
	return "boutiques"
}

// ToDomain converts the persistence model to a domain Boutique entity.
func (m *BoutiqueModel) ToDomain() *catalog.Boutique {
	return &catalog.Boutique{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// BoutiqueModelFromDomain creates a new persistence model from a domain Boutique entity.
func BoutiqueModelFromDomain(b *catalog.Boutique) *BoutiqueModel {
	m := &BoutiqueModel{Name: b.Name}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}

// ProductLikeModel records that a user likes a product.
type ProductLikeModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_product_likes_product"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductLikeModel) TableName() string {
	return "product_likes"
}
