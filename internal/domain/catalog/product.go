package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item identified by its SKU.
// It is the aggregate root for the lowest price aggregate of its variants.
type Product struct {
	shared.BaseAggregateRoot
	SKU         string
	Name        string
	Description string
	BrandID     uuid.UUID
	CategoryKey *uuid.UUID
	Thumbnail   string
	Images      []string
	// LowestPrice is the cheapest price among in-stock variants, nil when no
	// variant has been offered yet.
	LowestPrice *decimal.Decimal
}

// NewProduct creates a new product without any price
func NewProduct(sku, name, description string, brandID uuid.UUID, categoryKey *uuid.UUID) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if err := validateProductSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if brandID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRAND", "Product brand is required")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              strings.TrimSpace(name),
		Description:       description,
		BrandID:           brandID,
		CategoryKey:       categoryKey,
		Images:            []string{},
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.touch()
	return nil
}

// SetMedia replaces the thumbnail and image urls
func (p *Product) SetMedia(thumbnail string, images []string) {
	p.Thumbnail = strings.TrimSpace(thumbnail)
	p.Images = make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			p.Images = append(p.Images, img)
		}
	}
	p.touch()
}

// SetBrand moves the product to another brand
func (p *Product) SetBrand(brandID uuid.UUID) error {
	if brandID == uuid.Nil {
		return shared.NewDomainError("INVALID_BRAND", "Product brand is required")
	}
	p.BrandID = brandID
	p.touch()
	return nil
}

// SetCategory sets the product category, nil detaches it
func (p *Product) SetCategory(categoryKey *uuid.UUID) {
	p.CategoryKey = categoryKey
	p.touch()
}

// HasLowestPrice returns true once any in-stock variant has been priced
func (p *Product) HasLowestPrice() bool {
	return p.LowestPrice != nil
}

// IsLowestPrice checks whether price equals the current aggregate
func (p *Product) IsLowestPrice(price decimal.Decimal) bool {
	return p.LowestPrice != nil && p.LowestPrice.Equal(price)
}

// OfferPrice lowers the aggregate to price when it is unset or strictly higher.
// It reports whether the aggregate changed.
func (p *Product) OfferPrice(price decimal.Decimal) bool {
	if p.LowestPrice != nil && !price.LessThan(*p.LowestPrice) {
		return false
	}
	p.SetLowestPrice(&price)
	return true
}

// SetLowestPrice overwrites the aggregate
func (p *Product) SetLowestPrice(price *decimal.Decimal) {
	if price == nil {
		p.LowestPrice = nil
	} else {
		v := *price
		p.LowestPrice = &v
	}
	p.touch()
}

// touch stamps the modification time; the repository bumps Version on save.
func (p *Product) touch() {
	p.UpdatedAt = time.Now()
}

func validateProductSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 64 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "Product SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
