package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopmall/backend/internal/domain/shared"
	"golang.org/x/text/cases"
)

// Brand is the maker a product is sold under
type Brand struct {
	shared.BaseEntity
	Name string
}

// NewBrand creates a new brand
func NewBrand(name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if err := validateBrandName(name); err != nil {
		return nil, err
	}
	return &Brand{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Rename changes the brand name
func (b *Brand) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateBrandName(name); err != nil {
		return err
	}
	b.Name = name
	b.UpdatedAt = time.Now()
	return nil
}

// FoldedName returns the name used for case-insensitive uniqueness checks
func (b *Brand) FoldedName() string {
	return FoldBrandName(b.Name)
}

// FoldBrandName case-folds a brand name for comparisons
func FoldBrandName(name string) string {
	// A Caser is stateful and must not be shared between goroutines.
	return cases.Fold().String(strings.TrimSpace(name))
}

func validateBrandName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot exceed 100 characters")
	}
	return nil
}

// Boutique is a shop that offers product variants
type Boutique struct {
	shared.BaseEntity
	Name string
}

// NewBoutique creates a new boutique
func NewBoutique(name string) (*Boutique, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Boutique name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Boutique name cannot exceed 100 characters")
	}
	return &Boutique{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}
