package catalog

import (
	"github.com/shopspring/decimal"
)

// PricingPolicy decides when a variant write forces a full recompute of a
// product's lowest price.
type PricingPolicy struct {
	// RecomputeOnStockout makes the incumbent variant running out of stock
	// trigger a recompute. When false only price changes do.
	RecomputeOnStockout bool
}

// NeedsRecompute reports whether the change may have raised the lowest price.
// Only the variant holding the current aggregate (the incumbent) can do that.
func (pp PricingPolicy) NeedsRecompute(product *Product, change VariantChange) bool {
	if change.Created || !product.IsLowestPrice(change.PriorPrice) {
		return false
	}
	if change.PriceChanged() {
		return true
	}
	return pp.RecomputeOnStockout && change.WentOutOfStock()
}

// ApplyVariantChange folds a variant write into the product's lowest price.
//
// cheapestOther is the cheapest in-stock price among the other variants of the
// same SKU and is only consulted when a recompute is needed; lookup is called
// lazily for that case. It reports whether the aggregate changed.
func (pp PricingPolicy) ApplyVariantChange(
	product *Product,
	change VariantChange,
	lookup func() (*decimal.Decimal, error),
) (bool, error) {
	if !pp.NeedsRecompute(product, change) {
		if change.InStock() {
			return product.OfferPrice(change.Price), nil
		}
		return false, nil
	}

	cheapestOther, err := lookup()
	if err != nil {
		return false, err
	}

	var own *decimal.Decimal
	if change.InStock() {
		own = &change.Price
	}
	lowest := MinPrice(own, cheapestOther)
	if lowest == nil {
		if !pp.RecomputeOnStockout {
			return false, nil
		}
		if product.LowestPrice == nil {
			return false, nil
		}
		product.SetLowestPrice(nil)
		return true, nil
	}
	if product.IsLowestPrice(*lowest) {
		return false, nil
	}
	product.SetLowestPrice(lowest)
	return true, nil
}

// ApplyRecompute sets the aggregate to the given full minimum, nil clearing it.
// It reports whether the aggregate changed.
func ApplyRecompute(product *Product, lowest *decimal.Decimal) bool {
	switch {
	case lowest == nil && product.LowestPrice == nil:
		return false
	case lowest != nil && product.IsLowestPrice(*lowest):
		return false
	}
	product.SetLowestPrice(lowest)
	return true
}

// MinPrice returns the smaller of two optional prices, nil when both are nil
func MinPrice(a, b *decimal.Decimal) *decimal.Decimal {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	case b.LessThan(*a):
		v := *b
		return &v
	default:
		v := *a
		return &v
	}
}

// LowestInStockPrice returns the cheapest price among in-stock variants
func LowestInStockPrice(variants []BoutiqueProduct) *decimal.Decimal {
	var lowest *decimal.Decimal
	for i := range variants {
		if !variants[i].InStock() {
			continue
		}
		lowest = MinPrice(lowest, &variants[i].Price)
	}
	return lowest
}

// SizePrice is the cheapest in-stock offer for one size of a SKU
type SizePrice struct {
	Size  string
	Price decimal.Decimal
}
