package domain

import (
	"fmt"
	"time"
)

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order represents a placed order. Total is frozen at creation time as the
// sum of its line items and is never recomputed.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	OrderNumber     string      `json:"order_number"`
	Total           int64       `json:"total"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	TrackingNumber  *string     `json:"tracking_number,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a line item frozen at purchase time. ProductName and
// ProductImage are denormalized from the catalog when reading history and
// are not stored on the row.
type OrderItem struct {
	ID           string `json:"id"`
	OrderID      string `json:"order_id"`
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	Price        int64  `json:"price"`
	ProductName  string `json:"product_name,omitempty"`
	ProductImage string `json:"product_image,omitempty"`
}

// ValidOrderStatuses returns the set of valid order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValidOrderStatus checks whether the given string is a valid status.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// NewOrderNumber derives a human-readable order number from a timestamp:
// the last six digits of its Unix millisecond value.
func NewOrderNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%06d", t.UnixMilli()%1_000_000)
}
