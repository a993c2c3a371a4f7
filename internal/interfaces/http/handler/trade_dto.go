package handler

import "github.com/google/uuid"

// PutInCartRequest represents the body of an add-to-cart call
type PutInCartRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
}

// CreateOrderRequest represents the checkout body
type CreateOrderRequest struct {
	Address string `json:"address" binding:"required,min=1,max=500"`
}

// AdvanceOrderRequest moves an order forward. Without status the order
// goes to the next status.
type AdvanceOrderRequest struct {
	Status         *int   `json:"status" binding:"omitempty,min=0,max=3"`
	TrackingNumber string `json:"tracking_number" binding:"max=100"`
}

// OrderListQuery is the paging of the order list
type OrderListQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}
