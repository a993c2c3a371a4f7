package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CartModel stores the running total of a user's cart.
type CartModel struct {
	UserID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Items      []CartItemModel `gorm:"foreignKey:UserID;references:UserID"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is one cart line. A variant appears at most once per cart.
type CartItemModel struct {
	UserID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VariantID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"not null;default:0"`
	SKU       string          `gorm:"column:sku;type:varchar(50);not null"`
	Size      string          `gorm:"type:varchar(20);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain Cart.
func (m *CartModel) ToDomain() *trade.Cart {
	cart := &trade.Cart{
		UserID:     m.UserID,
		Items:      make([]trade.CartItem, len(m.Items)),
		TotalPrice: m.TotalPrice,
		UpdatedAt:  m.UpdatedAt,
	}
	for i, item := range m.Items {
		cart.Items[i] = trade.CartItem{
			VariantID: item.VariantID,
			SKU:       item.SKU,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return cart
}

// CartModelFromDomain creates a new persistence model from a domain Cart.
func CartModelFromDomain(c *trade.Cart) *CartModel {
	m := &CartModel{
		UserID:     c.UserID,
		TotalPrice: c.TotalPrice,
		Items:      make([]CartItemModel, len(c.Items)),
		UpdatedAt:  c.UpdatedAt,
	}
	for i, item := range c.Items {
		m.Items[i] = CartItemModel{
			UserID:    c.UserID,
			VariantID: item.VariantID,
			Position:  i,
			SKU:       item.SKU,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return m
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_orders_user_created,priority:1"`
	BuyerName      string           `gorm:"type:varchar(100);not null"`
	BuyerEmail     string           `gorm:"type:varchar(200);not null"`
	Address        string           `gorm:"type:varchar(500);not null"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
	TotalPrice     decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	Status         int              `gorm:"not null;default:0;index:idx_orders_status"`
	TrackingNumber *string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the persistence model for an order line snapshot.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_items_order"`
	Position  int             `gorm:"not null;default:0"`
	VariantID uuid.UUID       `gorm:"type:uuid;not null"`
	SKU       string          `gorm:"column:sku;type:varchar(50);not null"`
	Size      string          `gorm:"type:varchar(20);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		BuyerName:         m.BuyerName,
		BuyerEmail:        m.BuyerEmail,
		Address:           m.Address,
		Items:             make([]trade.OrderItem, len(m.Items)),
		TotalPrice:        m.TotalPrice,
		Status:            trade.OrderStatus(m.Status),
		TrackingNumber:    m.TrackingNumber,
	}
	for i, item := range m.Items {
		order.Items[i] = trade.OrderItem{
			VariantID: item.VariantID,
			SKU:       item.SKU,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}
	return order
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		UserID:         o.UserID,
		BuyerName:      o.BuyerName,
		BuyerEmail:     o.BuyerEmail,
		Address:        o.Address,
		Items:          make([]OrderItemModel, len(o.Items)),
		TotalPrice:     o.TotalPrice,
		Status:         int(o.Status),
		TrackingNumber: o.TrackingNumber,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for i, item := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:        uuid.New(),
			OrderID:   o.ID,
			Position:  i,
			VariantID: item.VariantID,
			SKU:       item.SKU,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}
	return m
}

// AllModels lists every persistence model, in dependency order, for AutoMigrate in tests.
func AllModels() []any {
	return []any{
		&CategoryModel{},
		&BrandModel{},
		&BoutiqueModel{},
		&ProductModel{},
		&BoutiqueProductModel{},
		&ProductLikeModel{},
		&UserModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
