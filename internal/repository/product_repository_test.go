package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"artisan-market/internal/domain"

	"github.com/google/uuid"
)

// seedOwner inserts a user row to satisfy the ownership foreign key.
func seedOwner(t *testing.T) uuid.UUID {
	t.Helper()

	user := newStoredUser("owner-"+uuid.New().String()[:8], "some-hash")
	user.Role = domain.RoleSeller
	if err := NewUserRepository(testDB).Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed owner: %v", err)
	}
	t.Cleanup(func() {
		testDB.Exec("DELETE FROM products WHERE owner_user_id = $1", user.ID)
		testDB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user.ID
}

func newStoredProduct(owner uuid.UUID) *domain.Product {
	now := time.Now()
	return &domain.Product{
		ID:           uuid.New(),
		OwnerUserID:  owner,
		Title:        "Walnut serving board",
		Description:  "Hand-carved from a single plank",
		Price:        85.0,
		Images:       []string{"/img/board-front.jpg", "/img/board-back.jpg"},
		Measurements: "40x20x3 cm",
		Material:     "walnut",
		Features:     "food-safe oil finish",
		StockStatus:  domain.StockAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestProductRoundTripKeepsImages(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()
	owner := seedOwner(t)

	product := newStoredProduct(owner)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stored, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if len(stored.Images) != 2 || stored.Images[0] != "/img/board-front.jpg" {
		t.Errorf("Images lost in the document round trip: %v", stored.Images)
	}
	if stored.StockStatus != domain.StockAvailable {
		t.Errorf("Expected stock status Available, got %s", stored.StockStatus)
	}
	if stored.OwnerUserID != owner {
		t.Errorf("Expected owner %s, got %s", owner, stored.OwnerUserID)
	}
}

func TestProductFindByOwnerScopes(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	firstOwner := seedOwner(t)
	secondOwner := seedOwner(t)

	for i := 0; i < 2; i++ {
		if err := repo.Create(ctx, newStoredProduct(firstOwner)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := repo.Create(ctx, newStoredProduct(secondOwner)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	owned, err := repo.FindByOwner(ctx, firstOwner)
	if err != nil {
		t.Fatalf("FindByOwner failed: %v", err)
	}
	if len(owned) != 2 {
		t.Fatalf("Expected 2 products for first owner, got %d", len(owned))
	}
	for _, product := range owned {
		if product.OwnerUserID != firstOwner {
			t.Errorf("FindByOwner leaked product of %s", product.OwnerUserID)
		}
	}
}

func TestProductReplacePersistsNewValues(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()
	owner := seedOwner(t)

	product := newStoredProduct(owner)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	product.Title = "Walnut serving board, large"
	product.StockStatus = domain.StockBackordered
	product.UpdatedAt = time.Now()
	if err := repo.Replace(ctx, product); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	stored, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.Title != "Walnut serving board, large" || stored.StockStatus != domain.StockBackordered {
		t.Errorf("Replace did not persist: %+v", stored)
	}
}

func TestProductAbsentRecords(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()
	owner := seedOwner(t)

	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound from FindByID, got %v", err)
	}
	if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound from Delete, got %v", err)
	}

	ghost := newStoredProduct(owner)
	if err := repo.Replace(ctx, ghost); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound from Replace, got %v", err)
	}
}
