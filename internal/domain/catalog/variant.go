package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BoutiqueProduct is a purchasable variant of a product: one size of one SKU
// offered by one boutique, with its own price and stock.
type BoutiqueProduct struct {
	shared.BaseEntity
	SKU        string
	BoutiqueID uuid.UUID
	Size       string
	Quantity   int
	Price      decimal.Decimal
}

// VariantPatch carries the optional fields of a variant update
type VariantPatch struct {
	Price    *decimal.Decimal
	Quantity *int
}

// IsEmpty returns true if the patch changes nothing
func (p VariantPatch) IsEmpty() bool {
	return p.Price == nil && p.Quantity == nil
}

// VariantChange describes a variant write as seen by the lowest price aggregate
type VariantChange struct {
	Created       bool
	PriorPrice    decimal.Decimal
	PriorQuantity int
	Price         decimal.Decimal
	Quantity      int
}

// PriceChanged reports whether the write changed the variant price
func (c VariantChange) PriceChanged() bool {
	return !c.Created && !c.PriorPrice.Equal(c.Price)
}

// WentOutOfStock reports whether the write took the variant from stock to zero
func (c VariantChange) WentOutOfStock() bool {
	return !c.Created && c.PriorQuantity > 0 && c.Quantity <= 0
}

// InStock reports whether the variant is in stock after the write
func (c VariantChange) InStock() bool {
	return c.Quantity > 0
}

// NewBoutiqueProduct creates a new variant
func NewBoutiqueProduct(sku string, boutiqueID uuid.UUID, size string, price decimal.Decimal, quantity int) (*BoutiqueProduct, error) {
	sku = strings.TrimSpace(sku)
	size = strings.TrimSpace(size)
	if err := validateProductSKU(sku); err != nil {
		return nil, err
	}
	if boutiqueID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Boutique is required")
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	return &BoutiqueProduct{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        sku,
		BoutiqueID: boutiqueID,
		Size:       size,
		Quantity:   quantity,
		Price:      price,
	}, nil
}

// InStock returns true when the variant can be sold
func (v *BoutiqueProduct) InStock() bool {
	return v.Quantity > 0
}

// Replace overwrites price and stock, as done by an upsert on an existing variant
func (v *BoutiqueProduct) Replace(price decimal.Decimal, quantity int) (VariantChange, error) {
	return v.Apply(VariantPatch{Price: &price, Quantity: &quantity})
}

// Apply applies a patch and returns the resulting change.
// The variant is left untouched when the patch is invalid.
func (v *BoutiqueProduct) Apply(patch VariantPatch) (VariantChange, error) {
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return VariantChange{}, err
		}
	}
	if patch.Quantity != nil {
		if err := validateQuantity(*patch.Quantity); err != nil {
			return VariantChange{}, err
		}
	}

	change := VariantChange{
		PriorPrice:    v.Price,
		PriorQuantity: v.Quantity,
	}
	if patch.Price != nil {
		v.Price = *patch.Price
	}
	if patch.Quantity != nil {
		v.Quantity = *patch.Quantity
	}
	change.Price = v.Price
	change.Quantity = v.Quantity

	if !patch.IsEmpty() {
		v.UpdatedAt = time.Now()
	}
	return change, nil
}

// CreatedChange returns the change describing the creation of v
func (v *BoutiqueProduct) CreatedChange() VariantChange {
	return VariantChange{
		Created:  true,
		Price:    v.Price,
		Quantity: v.Quantity,
	}
}

// ChangeFrom returns the change that turned prior into v
func (v *BoutiqueProduct) ChangeFrom(prior *BoutiqueProduct) VariantChange {
	return VariantChange{
		PriorPrice:    prior.Price,
		PriorQuantity: prior.Quantity,
		Price:         v.Price,
		Quantity:      v.Quantity,
	}
}

func validateSize(size string) error {
	if size == "" {
		return shared.NewDomainError("INVALID_SIZE", "Size cannot be empty")
	}
	if len(size) > 20 {
		return shared.NewDomainError("INVALID_SIZE", "Size cannot exceed 20 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	return nil
}
