package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"artisan-market/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product record access.
// It has no notion of identity; ownership checks happen in the service
// layer before any call lands here.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Product, error)
	Replace(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		INSERT INTO products (id, owner_user_id, title, description, price, images,
		                      category_id, measurements, material, features, stock_status,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.OwnerUserID,
		product.Title,
		product.Description,
		product.Price,
		images,
		product.CategoryID,
		product.Measurements,
		product.Material,
		product.Features,
		product.StockStatus,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := selectProduct + ` WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	product, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindAll retrieves the full catalog
func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.query(ctx, selectProduct+` ORDER BY created_at DESC`)
}

// FindByOwner retrieves the products owned by a single user
func (r *productRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Product, error) {
	return r.query(ctx, selectProduct+` WHERE owner_user_id = $1 ORDER BY created_at DESC`, ownerID)
}

// Replace overwrites an existing product record wholesale
func (r *productRepository) Replace(ctx context.Context, product *domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		UPDATE products
		SET owner_user_id = $2, title = $3, description = $4, price = $5, images = $6,
		    category_id = $7, measurements = $8, material = $9, features = $10,
		    stock_status = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.OwnerUserID,
		product.Title,
		product.Description,
		product.Price,
		images,
		product.CategoryID,
		product.Measurements,
		product.Material,
		product.Features,
		product.StockStatus,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to replace product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product record
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

const selectProduct = `
	SELECT id, owner_user_id, title, description, price, images,
	       category_id, measurements, material, features, stock_status,
	       created_at, updated_at
	FROM products`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var images []byte

	err := row.Scan(
		&product.ID,
		&product.OwnerUserID,
		&product.Title,
		&product.Description,
		&product.Price,
		&images,
		&product.CategoryID,
		&product.Measurements,
		&product.Material,
		&product.Features,
		&product.StockStatus,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(images) > 0 {
		if err := json.Unmarshal(images, &product.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}
	}

	return product, nil
}

func (r *productRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
