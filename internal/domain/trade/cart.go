package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CartItem is one variant stored in a cart. UnitPrice is captured when the
// line is added so removing it subtracts exactly what was added.
type CartItem struct {
	VariantID uuid.UUID
	SKU       string
	Size      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Amount returns UnitPrice x Quantity
func (i CartItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the shopping cart owned by a user
type Cart struct {
	UserID     uuid.UUID
	Items      []CartItem
	TotalPrice decimal.Decimal
	UpdatedAt  time.Time
}

// NewCart creates an empty cart for the user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		UserID:     userID,
		Items:      make([]CartItem, 0),
		TotalPrice: decimal.Zero,
		UpdatedAt:  time.Now(),
	}
}

// Put adds a variant line. A variant can appear only once per cart.
func (c *Cart) Put(item CartItem) error {
	if item.VariantID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Variant is required")
	}
	if item.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if item.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if c.Find(item.VariantID) != nil {
		return shared.NewDomainError("ALREADY_EXISTS", "Product is already in the cart")
	}

	c.Items = append(c.Items, item)
	c.TotalPrice = c.TotalPrice.Add(item.Amount())
	c.UpdatedAt = time.Now()
	return nil
}

// Remove deletes the line of the variant and returns it
func (c *Cart) Remove(variantID uuid.UUID) (CartItem, error) {
	for i, item := range c.Items {
		if item.VariantID != variantID {
			continue
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.TotalPrice = c.TotalPrice.Sub(item.Amount())
		if len(c.Items) == 0 {
			c.TotalPrice = decimal.Zero
		}
		c.UpdatedAt = time.Now()
		return item, nil
	}
	return CartItem{}, shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
}

// Find returns the line of the variant, nil when absent
func (c *Cart) Find(variantID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			return &c.Items[i]
		}
	}
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.TotalPrice = decimal.Zero
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of lines
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// ComputedTotal sums the lines
func (c *Cart) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Amount())
	}
	return total
}
