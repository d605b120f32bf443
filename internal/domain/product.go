package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StockStatus is the closed set of availability states for a product.
type StockStatus string

const (
	StockAvailable            StockStatus = "Available"
	StockOutOfStock           StockStatus = "OutOfStock"
	StockAvailableForPreOrder StockStatus = "AvailableForPreOrder"
	StockBackordered          StockStatus = "Backordered"
	StockAvailableByOrder     StockStatus = "AvailableByOrder"
	StockDiscontinued         StockStatus = "Discontinued"
)

// ParseStockStatus maps a status string to a known StockStatus.
func ParseStockStatus(s string) (StockStatus, error) {
	switch StockStatus(s) {
	case StockAvailable, StockOutOfStock, StockAvailableForPreOrder,
		StockBackordered, StockAvailableByOrder, StockDiscontinued:
		return StockStatus(s), nil
	}
	return "", fmt.Errorf("unknown stock status %q", s)
}

// Product represents a catalog listing. OwnerUserID is set once at
// creation time to the creating user and never changes afterwards;
// seller-level access decisions key off it.
type Product struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	OwnerUserID  uuid.UUID   `json:"owner_user_id" db:"owner_user_id"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	Price        float64     `json:"price" db:"price"`
	Images       []string    `json:"images" db:"images"`
	CategoryID   uuid.UUID   `json:"category_id" db:"category_id"`
	Measurements string      `json:"measurements" db:"measurements"`
	Material     string      `json:"material" db:"material"`
	Features     string      `json:"features" db:"features"`
	StockStatus  StockStatus `json:"stock_status" db:"stock_status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}
