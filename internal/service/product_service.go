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

// ProductInput is the payload for creating or updating a product. The
// OwnerUserID field is accepted for wire compatibility but never
// honored: ownership is always server-assigned from the caller.
type ProductInput struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	Images       []string `json:"images"`
	CategoryID   string   `json:"category_id" validate:"omitempty,uuid"`
	Measurements string   `json:"measurements"`
	Material     string   `json:"material"`
	Features     string   `json:"features"`
	StockStatus  string   `json:"stock_status" validate:"omitempty,oneof=Available OutOfStock AvailableForPreOrder Backordered AvailableByOrder Discontinued"`
	OwnerUserID  string   `json:"owner_user_id"`
}

// ProductService defines the interface for product business logic.
// Every method that touches a single record runs the seller access
// check before acting; listing applies a role-scoped filter instead.
type ProductService interface {
	Create(ctx context.Context, caller auth.Identity, input ProductInput) (*domain.Product, error)
	GetAll(ctx context.Context, caller auth.Identity) ([]*domain.Product, error)
	GetByID(ctx context.Context, caller auth.Identity, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, caller auth.Identity, id uuid.UUID, input ProductInput) (bool, error)
	Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) (bool, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// checkSellerAccess is the central authorization primitive: a Seller
// may only touch records they own; every other role passes. It is
// side-effect-free beyond the pass/fail decision.
func checkSellerAccess(caller auth.Identity, ownerID uuid.UUID) error {
	if caller.Role == domain.RoleSeller && caller.UserID != ownerID {
		return apperr.AccessDenied("you do not have access to this product")
	}
	return nil
}

// Create validates the input and persists a new product owned by the
// caller. A client-supplied owner id is ignored.
func (s *productService) Create(ctx context.Context, caller auth.Identity, input ProductInput) (*domain.Product, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}
	product.ID = uuid.New()
	product.OwnerUserID = caller.UserID
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetAll lists the catalog. Sellers see only their own products; every
// other role sees everything. This is a listing-time filter, not a
// per-item access check.
func (s *productService) GetAll(ctx context.Context, caller auth.Identity) ([]*domain.Product, error) {
	if caller.Role == domain.RoleSeller {
		return s.productRepo.FindByOwner(ctx, caller.UserID)
	}
	return s.productRepo.FindAll(ctx)
}

// GetByID fetches a single product and enforces seller access against
// its owner.
func (s *productService) GetByID(ctx context.Context, caller auth.Identity, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if err := checkSellerAccess(caller, product.OwnerUserID); err != nil {
		return nil, err
	}

	return product, nil
}

// Update replaces an existing product. The access check runs against
// the EXISTING record's owner, and the stored owner id survives the
// replace regardless of the payload. Returns false when the record
// vanished between the fetch and the replace.
func (s *productService) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, input ProductInput) (bool, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return false, apperr.NotFound("product not found")
		}
		return false, fmt.Errorf("failed to get product: %w", err)
	}

	if err := checkSellerAccess(caller, existing.OwnerUserID); err != nil {
		return false, err
	}

	if err := validation.Struct(input); err != nil {
		return false, err
	}

	updated, err := productFromInput(input)
	if err != nil {
		return false, err
	}
	updated.ID = existing.ID
	updated.OwnerUserID = existing.OwnerUserID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := s.productRepo.Replace(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			// Deleted between fetch and replace; a legitimate outcome.
			return false, nil
		}
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return true, nil
}

// Delete removes a product after the seller access check. Returns
// false when the record vanished between the fetch and the delete.
func (s *productService) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) (bool, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return false, apperr.NotFound("product not found")
		}
		return false, fmt.Errorf("failed to get product: %w", err)
	}

	if err := checkSellerAccess(caller, existing.OwnerUserID); err != nil {
		return false, err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return true, nil
}

func productFromInput(input ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		Images:       input.Images,
		Measurements: input.Measurements,
		Material:     input.Material,
		Features:     input.Features,
		StockStatus:  domain.StockAvailable,
	}

	if input.CategoryID != "" {
		categoryID, err := uuid.Parse(input.CategoryID)
		if err != nil {
			return nil, apperr.InvalidArgument("invalid category id")
		}
		product.CategoryID = categoryID
	}
	if input.StockStatus != "" {
		status, err := domain.ParseStockStatus(input.StockStatus)
		if err != nil {
			return nil, apperr.InvalidArgument(err.Error())
		}
		product.StockStatus = status
	}

	return product, nil
}
