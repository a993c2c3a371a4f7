package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSearchOption enumerates the supported product search criteria.
// Every option maps to exactly one query clause in the repository.
type ProductSearchOption string

const (
	SearchByCategory  ProductSearchOption = "category"
	SearchByName      ProductSearchOption = "name"
	SearchByBrand     ProductSearchOption = "brand"
	SearchByLessPrice ProductSearchOption = "lessPrice"
	SearchByMorePrice ProductSearchOption = "morePrice"
)

// ProductSearchOptions lists every option in clause order
var ProductSearchOptions = []ProductSearchOption{
	SearchByCategory,
	SearchByName,
	SearchByBrand,
	SearchByLessPrice,
	SearchByMorePrice,
}

// ProductSearch is a resolved product query. CategoryKeys already contains
// the requested categories and all of their descendants.
type ProductSearch struct {
	CategoryKeys []uuid.UUID
	Name         string
	BrandNames   []string
	LessPrice    *decimal.Decimal
	MorePrice    *decimal.Decimal
	Page         int
	PageSize     int

	// categoryRequested is set once a category criterion was given, even when
	// it resolved to no keys.
	categoryRequested bool
}

// WithCategoryKeys sets the category criterion
func (s *ProductSearch) WithCategoryKeys(keys []uuid.UUID) {
	s.CategoryKeys = keys
	s.categoryRequested = true
}

// Has reports whether the option is part of the search
func (s ProductSearch) Has(opt ProductSearchOption) bool {
	switch opt {
	case SearchByCategory:
		return s.categoryRequested || len(s.CategoryKeys) > 0
	case SearchByName:
		return strings.TrimSpace(s.Name) != ""
	case SearchByBrand:
		return len(s.BrandNames) > 0
	case SearchByLessPrice:
		return s.LessPrice != nil
	case SearchByMorePrice:
		return s.MorePrice != nil
	}
	return false
}

// Active returns the options set on the search, in clause order
func (s ProductSearch) Active() []ProductSearchOption {
	active := make([]ProductSearchOption, 0, len(ProductSearchOptions))
	for _, opt := range ProductSearchOptions {
		if s.Has(opt) {
			active = append(active, opt)
		}
	}
	return active
}

// Normalize applies paging defaults and bounds
func (s *ProductSearch) Normalize() {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.PageSize < 1 {
		s.PageSize = 20
	}
	if s.PageSize > 100 {
		s.PageSize = 100
	}
}

// Offset returns the row offset of the requested page
func (s ProductSearch) Offset() int {
	if s.Page <= 1 {
		return 0
	}
	return (s.Page - 1) * s.PageSize
}
