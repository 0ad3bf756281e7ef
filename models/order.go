package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Accepted by the restaurant
	OrderStatusPreparing OrderStatus = "preparing" // In the kitchen
	OrderStatusDelivered OrderStatus = "delivered" // Handed to the customer
	OrderStatusCancelled OrderStatus = "cancelled"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

// ParseOrderStatus maps free text to a known status, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, nil
	case OrderStatusPreparing:
		return OrderStatusPreparing, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

type Order struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CustomerName  string          `gorm:"type:varchar(100);not null" json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `gorm:"type:varchar(20);not null" json:"customerPhone"`
	Address       string          `gorm:"type:varchar(200)" json:"address"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	UserID        *string         `gorm:"type:varchar(36);index" json:"userId"`
	User          *User           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

// OrderItem is a product, quantity and unit price snapshot within an order.
// Position keeps the order in which the items were submitted.
type OrderItem struct {
	ID        string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);index;not null" json:"orderId"`
	ProductID string          `gorm:"type:varchar(36);index;not null" json:"productId"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Position  int             `gorm:"not null;default:0" json:"-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}
