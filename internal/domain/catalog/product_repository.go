package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// Search finds the products matching a resolved search
	Search(ctx context.Context, search ProductSearch) ([]Product, int64, error)

	// ExistsBySKU checks if a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Save updates the catalog fields of an existing product, guarded by its
	// version. The lowest price is not written.
	Save(ctx context.Context, product *Product) error

	// SaveLowestPrice overwrites the lowest price of a product, nil clearing it.
	// The version is neither checked nor incremented.
	SaveLowestPrice(ctx context.Context, id uuid.UUID, price *decimal.Decimal) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// DetachCategories clears the category of every product in the given categories
	DetachCategories(ctx context.Context, categoryKeys []uuid.UUID) (int64, error)
}

// VariantRepository defines the interface for boutique product persistence
type VariantRepository interface {
	// FindByID finds a variant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*BoutiqueProduct, error)

	// FindByNaturalKey finds the variant for the (sku, boutique, size) triple
	FindByNaturalKey(ctx context.Context, sku string, boutiqueID uuid.UUID, size string) (*BoutiqueProduct, error)

	// FindBySKU returns every variant of a SKU ordered by price
	FindBySKU(ctx context.Context, sku string) ([]BoutiqueProduct, error)

	// LowestInStockPrice returns the cheapest price among variants of sku with
	// quantity > 0, excluding the variant with id exclude. Nil when none.
	LowestInStockPrice(ctx context.Context, sku string, exclude uuid.UUID) (*decimal.Decimal, error)

	// LowestPricesBySize returns the cheapest in-stock price per size of sku
	LowestPricesBySize(ctx context.Context, sku string) ([]SizePrice, error)

	// Create inserts a new variant
	Create(ctx context.Context, variant *BoutiqueProduct) error

	// Upsert inserts variant or, when its (sku, boutique, size) triple is taken,
	// overwrites price and quantity of the existing row in one statement. It
	// returns the stored row and the row read before the write; prior is nil
	// when no row was visible at that point.
	Upsert(ctx context.Context, variant *BoutiqueProduct) (stored, prior *BoutiqueProduct, err error)

	// Save updates an existing variant
	Save(ctx context.Context, variant *BoutiqueProduct) error

	// Delete deletes a variant
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteBySKU deletes every variant of a SKU
	DeleteBySKU(ctx context.Context, sku string) (int64, error)
}

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Brand, int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, brand *Brand) error
	Save(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountProducts counts products sold under the brand
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

// BoutiqueRepository defines the interface for boutique persistence
type BoutiqueRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Boutique, error)
	FindAll(ctx context.Context) ([]Boutique, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, boutique *Boutique) error
}

// LikeRepository stores which users like which products
type LikeRepository interface {
	// Add records a like. Adding an existing like is a no-op.
	Add(ctx context.Context, userID, productID uuid.UUID) error
	// Remove deletes a like and reports whether it existed
	Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	// ProductIDsByUser lists the products a user likes
	ProductIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// CountByProduct counts the likes of a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	// DeleteByProduct removes every like of a product
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
	// DeleteByUser removes every like of a user
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
