package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artisan-market/internal/apperr"
	"artisan-market/internal/auth"
	"artisan-market/internal/domain"
	"artisan-market/internal/repository"
	"artisan-market/internal/validation"

	"github.com/google/uuid"
)

// OrderItemInput is one line of an order payload.
type OrderItemInput struct {
	ProductID   string  `json:"product_id" validate:"required,uuid"`
	ProductName string  `json:"product_name" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// OrderInput is the payload for creating or updating an order.
// TotalPrice is stored as supplied; nothing reconciles it against the
// item line totals.
type OrderInput struct {
	CustomerID      string           `json:"customer_id" validate:"required,uuid"`
	OwnershipID     string           `json:"ownership_id" validate:"required,uuid"`
	OrderDate       time.Time        `json:"order_date"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	TotalPrice      float64          `json:"total_price" validate:"gte=0"`
	ShippingAddress domain.Address   `json:"shipping_address"`
	Status          string           `json:"status" validate:"omitempty,oneof=Pending Processing Shipped Delivered Cancelled"`
}

// OrderService defines the interface for order business logic. The
// CRUD shape mirrors ProductService, but no seller access check is
// wired in; see GetByID.
type OrderService interface {
	Create(ctx context.Context, caller auth.Identity, input OrderInput) (*domain.Order, error)
	GetAll(ctx context.Context, caller auth.Identity) ([]*domain.Order, error)
	GetByID(ctx context.Context, caller auth.Identity, id uuid.UUID) (*domain.Order, error)
	Update(ctx context.Context, caller auth.Identity, id uuid.UUID, input OrderInput) (bool, error)
	Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) (bool, error)
	GetFiltered(ctx context.Context, caller auth.Identity, sellerID, status string, startDate, endDate *time.Time) ([]*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// Create validates and persists a new order.
func (s *orderService) Create(ctx context.Context, caller auth.Identity, input OrderInput) (*domain.Order, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	order, err := orderFromInput(input)
	if err != nil {
		return nil, err
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	if order.OrderDate.IsZero() {
		order.OrderDate = order.CreatedAt
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// GetAll lists every order.
func (s *orderService) GetAll(ctx context.Context, caller auth.Identity) ([]*domain.Order, error) {
	return s.orderRepo.FindAll(ctx)
}

// GetByID fetches a single order.
//
// TODO: orders carry an OwnershipID that mirrors Product.OwnerUserID,
// yet no checkSellerAccess equivalent runs here or in Update/Delete.
// Confirm with product whether seller scoping is intended before
// adding the guard.
func (s *orderService) GetByID(ctx context.Context, caller auth.Identity, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// Update replaces an existing order. Returns false when the record
// vanished between the fetch and the replace.
func (s *orderService) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, input OrderInput) (bool, error) {
	existing, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return false, apperr.NotFound("order not found")
		}
		return false, fmt.Errorf("failed to get order: %w", err)
	}

	if err := validation.Struct(input); err != nil {
		return false, err
	}

	updated, err := orderFromInput(input)
	if err != nil {
		return false, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	if updated.OrderDate.IsZero() {
		updated.OrderDate = existing.OrderDate
	}

	if err := s.orderRepo.Replace(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update order: %w", err)
	}

	return true, nil
}

// Delete removes an order. Returns false when the record vanished
// between the fetch and the delete.
func (s *orderService) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) (bool, error) {
	if _, err := s.orderRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return false, apperr.NotFound("order not found")
		}
		return false, fmt.Errorf("failed to get order: %w", err)
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete order: %w", err)
	}

	return true, nil
}

// GetFiltered lists orders matching every provided parameter; absent
// parameters impose no constraint. The date range is inclusive of
// startDate and exclusive of endDate.
func (s *orderService) GetFiltered(ctx context.Context, caller auth.Identity, sellerID, status string, startDate, endDate *time.Time) ([]*domain.Order, error) {
	filter := repository.OrderFilter{
		StartDate: startDate,
		EndDate:   endDate,
	}

	if sellerID != "" {
		id, err := uuid.Parse(sellerID)
		if err != nil {
			return nil, apperr.InvalidArgument("invalid seller id")
		}
		filter.SellerID = &id
	}
	if status != "" {
		parsed, err := domain.ParseOrderStatus(status)
		if err != nil {
			return nil, apperr.InvalidArgument(err.Error())
		}
		filter.Status = &parsed
	}

	return s.orderRepo.FindFiltered(ctx, filter)
}

func orderFromInput(input OrderInput) (*domain.Order, error) {
	customerID, err := uuid.Parse(input.CustomerID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid customer id")
	}
	ownershipID, err := uuid.Parse(input.OwnershipID)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid ownership id")
	}

	status := domain.OrderPending
	if input.Status != "" {
		status, err = domain.ParseOrderStatus(input.Status)
		if err != nil {
			return nil, apperr.InvalidArgument(err.Error())
		}
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apperr.InvalidArgument("invalid product id in order items")
		}
		items = append(items, domain.OrderItem{
			ProductID:   productID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return &domain.Order{
		CustomerID:      customerID,
		OwnershipID:     ownershipID,
		OrderDate:       input.OrderDate,
		Items:           items,
		TotalPrice:      input.TotalPrice,
		ShippingAddress: input.ShippingAddress,
		Status:          status,
	}, nil
}
