package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/identity"
	"github.com/shopmall/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uuid.UUID
	Role   identity.Role
}

// PutInCartRequest adds a variant to the caller's cart
type PutInCartRequest struct {
	VariantID uuid.UUID
	Quantity  int
}

// CreateOrderRequest checks out the caller's cart
type CreateOrderRequest struct {
	Address string
	// IdempotencyKey is the optional client supplied Idempotency-Key header
	IdempotencyKey string
}

// AdvanceOrderRequest moves an order forward. Without Status the order
// moves to the next status.
type AdvanceOrderRequest struct {
	Status         *int
	TrackingNumber string
}

// OrderListFilter is the paging of the order list
type OrderListFilter struct {
	Page     int
	PageSize int
}

// CartItemResponse is one cart line
type CartItemResponse struct {
	VariantID uuid.UUID       `json:"variant_id"`
	SKU       string          `json:"sku"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// CartResponse is the view of a cart
type CartResponse struct {
	UserID     uuid.UUID          `json:"user_id"`
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// OrderItemResponse is one order line
type OrderItemResponse struct {
	VariantID uuid.UUID       `json:"variant_id"`
	SKU       string          `json:"sku"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// OrderResponse is the view of an order
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"user_id"`
	BuyerName      string              `json:"buyer_name"`
	BuyerEmail     string              `json:"buyer_email"`
	Address        string              `json:"address"`
	Items          []OrderItemResponse `json:"items"`
	TotalPrice     decimal.Decimal     `json:"total_price"`
	Status         int                 `json:"status"`
	StatusName     string              `json:"status_name"`
	TrackingNumber *string             `json:"tracking_number,omitempty"`
	Version        int                 `json:"version"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToCartResponse converts a domain cart to its response
func ToCartResponse(c *trade.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemResponse{
			VariantID: item.VariantID,
			SKU:       item.SKU,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount(),
		})
	}
	return CartResponse{
		UserID:     c.UserID,
		Items:      items,
		TotalPrice: c.TotalPrice,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToOrderResponse converts a domain order to its response
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			VariantID: item.VariantID,
			SKU:       item.SKU,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		})
	}
	return OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		BuyerName:      o.BuyerName,
		BuyerEmail:     o.BuyerEmail,
		Address:        o.Address,
		Items:          items,
		TotalPrice:     o.TotalPrice,
		Status:         int(o.Status),
		StatusName:     o.Status.String(),
		TrackingNumber: o.TrackingNumber,
		Version:        o.Version,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToOrderResponses converts a list of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
