package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/wingtip/wingtip-api/models"
	"gorm.io/gorm"
)

func seedCategory(t *testing.T, db *gorm.DB, id int, name string) {
	t.Helper()
	if err := db.Create(&models.Category{CategoryID: id, CategoryName: name}).Error; err != nil {
		t.Fatalf("failed to seed category %q: %v", name, err)
	}
}

func seedProductInCategory(t *testing.T, db *gorm.DB, id int, name string, categoryID int) {
	t.Helper()
	product := models.Product{ProductID: id, ProductName: name, UnitPrice: price(9.99), CategoryID: &categoryID}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to seed product %q: %v", name, err)
	}
}

func TestProductRepository_GetByIDLoadsCategory(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedCategory(t, db, 1, "Cars")
	seedProductInCategory(t, db, 1, "Convertible Car", 1)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	product, err := uow.Products.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if product.Category == nil || product.Category.CategoryName != "Cars" {
		t.Errorf("expected category joined onto product, got %+v", product.Category)
	}
}

func TestProductRepository_GetProductsByCategory(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedCategory(t, db, 1, "Cars")
	seedCategory(t, db, 2, "Planes")
	seedProductInCategory(t, db, 1, "Convertible Car", 1)
	seedProductInCategory(t, db, 2, "Old-time Car", 1)
	seedProductInCategory(t, db, 3, "Paper Plane", 2)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	products, err := uow.Products.GetProductsByCategory(ctx, 1)
	if err != nil {
		t.Fatalf("GetProductsByCategory() error = %v", err)
	}
	if len(products) != 2 {
		t.Errorf("expected 2 products in category 1, got %d", len(products))
	}

	empty, err := uow.Products.GetProductsByCategory(ctx, 42)
	if err != nil {
		t.Fatalf("GetProductsByCategory(42) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no products for unknown category, got %d", len(empty))
	}
}

func TestProductRepository_SearchByName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Convertible Car", price(22.50))
	seedProduct(t, db, 2, "Old-time Car", price(15.95))
	seedProduct(t, db, 3, "Paper Plane", price(9.99))

	uow := NewUnitOfWork(db)
	defer uow.Close()

	matches, err := uow.Products.GetProductsByName(ctx, "Car")
	if err != nil {
		t.Fatalf("GetProductsByName() error = %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches for %q, got %d", "Car", len(matches))
	}

	blank, err := uow.Products.GetProductsByName(ctx, "")
	if err != nil {
		t.Fatalf("GetProductsByName(blank) error = %v", err)
	}
	if len(blank) != 0 {
		t.Errorf("expected empty result for blank search, got %d", len(blank))
	}
}

func TestProductRepository_GetProductByName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Paper Plane", price(9.99))

	uow := NewUnitOfWork(db)
	defer uow.Close()

	product, err := uow.Products.GetProductByName(ctx, "Paper Plane")
	if err != nil {
		t.Fatalf("GetProductByName() error = %v", err)
	}
	if product.ProductID != 1 {
		t.Errorf("expected product 1, got %d", product.ProductID)
	}

	if _, err := uow.Products.GetProductByName(ctx, "Missing Toy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown name, got %v", err)
	}
	if _, err := uow.Products.GetProductByName(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for blank name, got %v", err)
	}
}

func TestProductRepository_GetFeaturedProducts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		seedProduct(t, db, i, "Toy", price(float64(i)))
	}

	uow := NewUnitOfWork(db)
	defer uow.Close()

	featured, err := uow.Products.GetFeaturedProducts(ctx, 3)
	if err != nil {
		t.Fatalf("GetFeaturedProducts() error = %v", err)
	}
	if len(featured) != 3 {
		t.Errorf("expected 3 featured products, got %d", len(featured))
	}
}
