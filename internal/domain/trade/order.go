package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the delivery progress of an order
type OrderStatus int

const (
	OrderStatusProcessing       OrderStatus = 0
	OrderStatusReadyToShip      OrderStatus = 1
	OrderStatusOnShipping       OrderStatus = 2
	OrderStatusShippingComplete OrderStatus = 3
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	return s >= OrderStatusProcessing && s <= OrderStatusShippingComplete
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusProcessing:
		return "PROCESSING"
	case OrderStatusReadyToShip:
		return "READY_TO_SHIP"
	case OrderStatusOnShipping:
		return "ON_SHIPPING"
	case OrderStatusShippingComplete:
		return "SHIPPING_COMPLETE"
	}
	return fmt.Sprintf("OrderStatus(%d)", int(s))
}

// CanTransitionTo checks if the status can move to target. Status only moves forward.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return target.IsValid() && target > s
}

// IsTerminal returns true once the order was delivered
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusShippingComplete
}

// OrderItem is a snapshot of a cart line at checkout
type OrderItem struct {
	VariantID uuid.UUID
	SKU       string
	Size      string
	Quantity  int
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// Order represents a checked-out cart
type Order struct {
	shared.BaseAggregateRoot
	UserID         uuid.UUID
	BuyerName      string
	BuyerEmail     string
	Address        string
	Items          []OrderItem
	TotalPrice     decimal.Decimal
	Status         OrderStatus
	TrackingNumber *string
}

// Buyer is the user snapshot stored on an order
type Buyer struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

// NewOrderFromCart creates an order from the cart contents
func NewOrderFromCart(buyer Buyer, address string, cart *Cart) (*Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address cannot be empty")
	}
	if len(address) > 500 {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if cart == nil || cart.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot create an order from an empty cart")
	}

	items := make([]OrderItem, 0, len(cart.Items))
	total := decimal.Zero
	for _, line := range cart.Items {
		amount := line.Amount()
		items = append(items, OrderItem{
			VariantID: line.VariantID,
			SKU:       line.SKU,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Amount:    amount,
		})
		total = total.Add(amount)
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            buyer.UserID,
		BuyerName:         buyer.Name,
		BuyerEmail:        buyer.Email,
		Address:           address,
		Items:             items,
		TotalPrice:        total,
		Status:            OrderStatusProcessing,
	}, nil
}

// Advance moves the order to the next status. Shipping requires a tracking number.
func (o *Order) Advance(trackingNumber string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Order has already been delivered")
	}
	next := o.Status + 1
	return o.TransitionTo(next, trackingNumber)
}

// TransitionTo moves the order to target, which must be ahead of the current status
func (o *Order) TransitionTo(target OrderStatus, trackingNumber string) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	trackingNumber = strings.TrimSpace(trackingNumber)
	if target >= OrderStatusOnShipping && o.TrackingNumber == nil {
		if trackingNumber == "" {
			return shared.NewDomainError("INVALID_INPUT", "Tracking number is required to ship an order")
		}
	}
	if trackingNumber != "" {
		o.TrackingNumber = &trackingNumber
	}

	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// BelongsTo checks whether the order was placed by the user
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}

// ItemCount returns the number of lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}
