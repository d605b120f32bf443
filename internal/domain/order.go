package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the closed set of states an order moves through.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// ParseOrderStatus maps a status string to a known OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// OrderItem is a single line of an order. ProductName and UnitPrice are
// snapshots taken at order time, so later product edits do not rewrite
// order history.
type OrderItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
}

// LineTotal is derived, never stored.
func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Address is the shipping destination embedded in an order.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Order represents a placed order. OwnershipID is the seller-side party
// the order is attributed to; CustomerID is the buyer. Neither party
// exclusively owns the record.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	CustomerID      uuid.UUID   `json:"customer_id" db:"customer_id"`
	OwnershipID     uuid.UUID   `json:"ownership_id" db:"ownership_id"`
	OrderDate       time.Time   `json:"order_date" db:"order_date"`
	Items           []OrderItem `json:"items" db:"items"`
	TotalPrice      float64     `json:"total_price" db:"total_price"`
	ShippingAddress Address     `json:"shipping_address" db:"shipping_address"`
	Status          OrderStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}
