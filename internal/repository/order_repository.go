package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"artisan-market/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderFilter narrows a listing. Each set field ANDs into the query;
// nil fields impose no constraint. The date range is half-open:
// StartDate inclusive, EndDate exclusive.
type OrderFilter struct {
	SellerID  *uuid.UUID
	Status    *domain.OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// OrderRepository defines the interface for order record access.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	FindFiltered(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
	Replace(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts a new order using parameterized queries
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	items, address, err := encodeOrderDocs(order)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (id, customer_id, ownership_id, order_date, items,
		                    total_price, shipping_address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerID,
		order.OwnershipID,
		order.OrderDate,
		items,
		order.TotalPrice,
		address,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, selectOrder+` WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// FindAll retrieves every order
func (r *orderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.query(ctx, selectOrder+` ORDER BY order_date DESC`)
}

// FindFiltered retrieves orders matching every set filter field.
func (r *orderRepository) FindFiltered(ctx context.Context, filter OrderFilter) ([]*domain.Order, error) {
	where := ""
	args := []interface{}{}
	argIndex := 1

	and := func(clause string, arg interface{}) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, argIndex)
		args = append(args, arg)
		argIndex++
	}

	if filter.SellerID != nil {
		and("ownership_id = $%d", *filter.SellerID)
	}
	if filter.Status != nil {
		and("status = $%d", *filter.Status)
	}
	if filter.StartDate != nil {
		and("order_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		and("order_date < $%d", *filter.EndDate)
	}

	return r.query(ctx, selectOrder+where+` ORDER BY order_date DESC`, args...)
}

// Replace overwrites an existing order record wholesale
func (r *orderRepository) Replace(ctx context.Context, order *domain.Order) error {
	items, address, err := encodeOrderDocs(order)
	if err != nil {
		return err
	}

	query := `
		UPDATE orders
		SET customer_id = $2, ownership_id = $3, order_date = $4, items = $5,
		    total_price = $6, shipping_address = $7, status = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerID,
		order.OwnershipID,
		order.OrderDate,
		items,
		order.TotalPrice,
		address,
		order.Status,
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to replace order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete removes an order record
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

const selectOrder = `
	SELECT id, customer_id, ownership_id, order_date, items,
	       total_price, shipping_address, status, created_at, updated_at
	FROM orders`

func encodeOrderDocs(order *domain.Order) ([]byte, []byte, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode order items: %w", err)
	}
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode shipping address: %w", err)
	}
	return items, address, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var items, address []byte

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.OwnershipID,
		&order.OrderDate,
		&items,
		&order.TotalPrice,
		&address,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
			return nil, fmt.Errorf("failed to decode shipping address: %w", err)
		}
	}

	return order, nil
}

func (r *orderRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
