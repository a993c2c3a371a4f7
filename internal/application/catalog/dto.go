package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Category
// =============================================================================

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	ID       string  `json:"id" binding:"required,category_id"`
	ParentID *string `json:"parent_id" binding:"omitempty,category_id"`
}

// RenameCategoryRequest represents a request to change a category id
type RenameCategoryRequest struct {
	ID string `json:"id" binding:"required,category_id"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	Key       uuid.UUID `json:"key"`
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	ParentID  string    `json:"parent_id,omitempty"`
	Depth     int       `json:"depth"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryTreeNode represents a category with its children
type CategoryTreeNode struct {
	Key      uuid.UUID          `json:"key"`
	ID       string             `json:"id"`
	Path     string             `json:"path"`
	Children []CategoryTreeNode `json:"children"`
}

// MoveCategoryResponse reports the outcome of a subtree move
type MoveCategoryResponse struct {
	Category           CategoryResponse `json:"category"`
	DescendantsUpdated int              `json:"descendants_updated"`
}

// RenameCategoryResponse reports the outcome of a rename
type RenameCategoryResponse struct {
	Category           CategoryResponse `json:"category"`
	PreviousID         string           `json:"previous_id"`
	DescendantsUpdated int              `json:"descendants_updated"`
}

// DeleteCategoryResponse reports the outcome of a subtree delete
type DeleteCategoryResponse struct {
	CategoriesDeleted int64 `json:"categories_deleted"`
	ProductsDetached  int64 `json:"products_detached"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		Key:       c.Key,
		ID:        c.ID,
		Path:      c.Path,
		ParentID:  c.ParentID(),
		Depth:     c.Depth(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

// =============================================================================
// Product
// =============================================================================

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU         string    `json:"sku" binding:"required,min=1,max=64"`
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	BrandID     uuid.UUID `json:"brand_id" binding:"required"`
	CategoryID  string    `json:"category" binding:"required,category_id"`
	Thumbnail   string    `json:"thumbnail" binding:"omitempty,max=500"`
	Images      []string  `json:"images" binding:"omitempty,max=20,dive,max=500"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	BrandID     *uuid.UUID `json:"brand_id"`
	CategoryID  *string    `json:"category" binding:"omitempty,category_id"`
	Thumbnail   *string    `json:"thumbnail" binding:"omitempty,max=500"`
	Images      []string   `json:"images" binding:"omitempty,max=20,dive,max=500"`
}

// SearchProductsRequest carries the enumerated product search options
type SearchProductsRequest struct {
	Categories []string         `form:"category"`
	Name       string           `form:"name" binding:"max=200"`
	Brands     []string         `form:"brand"`
	LessPrice  *decimal.Decimal `form:"lessPrice"`
	MorePrice  *decimal.Decimal `form:"morePrice"`
	Page       int              `form:"page" binding:"omitempty,min=1"`
	PageSize   int              `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID        `json:"id"`
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	BrandID     uuid.UUID        `json:"brand_id"`
	BrandName   string           `json:"brand,omitempty"`
	CategoryKey *uuid.UUID       `json:"category_key"`
	CategoryID  string           `json:"category,omitempty"`
	Thumbnail   string           `json:"thumbnail"`
	Images      []string         `json:"images"`
	LowestPrice *decimal.Decimal `json:"lowest_price"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Version     int              `json:"version"`
}

// ProductDetailResponse is a product with its per-size prices and like count
type ProductDetailResponse struct {
	ProductResponse
	SizePrices []SizePriceResponse `json:"size_prices"`
	Likes      int64               `json:"likes"`
}

// SizePriceResponse is the cheapest in-stock offer for a size
type SizePriceResponse struct {
	Size  string          `json:"size"`
	Price decimal.Decimal `json:"price"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		BrandID:     p.BrandID,
		CategoryKey: p.CategoryKey,
		Thumbnail:   p.Thumbnail,
		Images:      images,
		LowestPrice: p.LowestPrice,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToSizePriceResponses converts the per-size read model
func ToSizePriceResponses(prices []catalog.SizePrice) []SizePriceResponse {
	responses := make([]SizePriceResponse, len(prices))
	for i, p := range prices {
		responses[i] = SizePriceResponse{Size: p.Size, Price: p.Price}
	}
	return responses
}

// =============================================================================
// Variant (boutique product)
// =============================================================================

// UpsertVariantRequest represents a request to create or replace a variant
type UpsertVariantRequest struct {
	BoutiqueID uuid.UUID       `json:"boutique" binding:"required"`
	Size       string          `json:"size" binding:"required,min=1,max=20"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Quantity   int             `json:"quantity" binding:"min=0"`
}

// UpdateVariantRequest represents a partial variant update
type UpdateVariantRequest struct {
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity" binding:"omitempty,min=0"`
}

// VariantResponse represents a boutique product in API responses
type VariantResponse struct {
	ID         uuid.UUID       `json:"id"`
	SKU        string          `json:"sku"`
	BoutiqueID uuid.UUID       `json:"boutique"`
	Size       string          `json:"size"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// VariantWriteResponse is a variant together with the resulting lowest price
type VariantWriteResponse struct {
	Variant     VariantResponse  `json:"variant"`
	LowestPrice *decimal.Decimal `json:"lowest_price"`
}

// LowestPriceResponse reports a product's lowest price after a recompute
type LowestPriceResponse struct {
	SKU         string           `json:"sku"`
	LowestPrice *decimal.Decimal `json:"lowest_price"`
	Changed     bool             `json:"changed"`
}

// ToVariantResponse converts a domain BoutiqueProduct to VariantResponse
func ToVariantResponse(v *catalog.BoutiqueProduct) VariantResponse {
	return VariantResponse{
		ID:         v.ID,
		SKU:        v.SKU,
		BoutiqueID: v.BoutiqueID,
		Size:       v.Size,
		Quantity:   v.Quantity,
		Price:      v.Price,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

// =============================================================================
// Brand and boutique
// =============================================================================

// BrandRequest represents a request to create or rename a brand
type BrandRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// BrandListFilter represents filter options for brand list
type BrandListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoutiqueRequest represents a request to create a boutique
type BoutiqueRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// BoutiqueResponse represents a boutique in API responses
type BoutiqueResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToBrandResponse converts a domain Brand to BrandResponse
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToBoutiqueResponse converts a domain Boutique to BoutiqueResponse
func ToBoutiqueResponse(b *catalog.Boutique) BoutiqueResponse {
	return BoutiqueResponse{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
	}
}
