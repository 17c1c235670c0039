package repositories

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/wingtip/wingtip-api/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestCartRepository_BlankCartID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	uow := NewUnitOfWork(db)
	defer uow.Close()

	items, err := uow.CartItems.GetCartItems(ctx, "")
	if err != nil {
		t.Fatalf("GetCartItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty slice for blank cart id, got %d items", len(items))
	}

	total, err := uow.CartItems.GetCartTotal(ctx, " ")
	if err != nil || total != 0 {
		t.Errorf("expected total 0 for blank cart id, got %v (err %v)", total, err)
	}

	count, err := uow.CartItems.GetCartItemCount(ctx, "")
	if err != nil || count != 0 {
		t.Errorf("expected count 0 for blank cart id, got %v (err %v)", count, err)
	}

	if err := uow.CartItems.EmptyCart(""); err != nil {
		t.Errorf("EmptyCart on blank cart id must be a no-op, got %v", err)
	}
}

func TestCartRepository_TotalsAndCount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Toy Plane", price(15.99))
	seedProduct(t, db, 2, "Toy Boat", price(24.99))
	seedProduct(t, db, 3, "Mystery Box", nil)
	seedCartItem(t, db, "cart-1", 1, 2)
	seedCartItem(t, db, "cart-1", 2, 1)
	seedCartItem(t, db, "cart-1", 3, 5)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	total, err := uow.CartItems.GetCartTotal(ctx, "cart-1")
	if err != nil {
		t.Fatalf("GetCartTotal() error = %v", err)
	}
	// Unpriced products count as zero.
	if want := 2*15.99 + 24.99; !almostEqual(total, want) {
		t.Errorf("expected total %.2f, got %.2f", want, total)
	}

	count, err := uow.CartItems.GetCartItemCount(ctx, "cart-1")
	if err != nil {
		t.Fatalf("GetCartItemCount() error = %v", err)
	}
	if count != 8 {
		t.Errorf("expected count 8, got %d", count)
	}

	// The total always equals the sum over the visible lines at live
	// product prices.
	items, err := uow.CartItems.GetCartItems(ctx, "cart-1")
	if err != nil {
		t.Fatalf("GetCartItems() error = %v", err)
	}
	var lineSum float64
	for _, item := range items {
		if item.Product != nil && item.Product.UnitPrice != nil {
			lineSum += float64(item.Quantity) * *item.Product.UnitPrice
		}
	}
	if !almostEqual(total, lineSum) {
		t.Errorf("total %.2f does not match line sum %.2f", total, lineSum)
	}
}

func TestCartRepository_GetCartItem(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Toy Plane", price(15.99))
	seedCartItem(t, db, "cart-1", 1, 2)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	item, err := uow.CartItems.GetCartItem(ctx, "cart-1", 1)
	if err != nil {
		t.Fatalf("GetCartItem() error = %v", err)
	}
	if item == nil || item.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %+v", item)
	}
	if item.Product == nil || item.Product.ProductName != "Toy Plane" {
		t.Errorf("expected product joined onto the line, got %+v", item.Product)
	}

	absent, err := uow.CartItems.GetCartItem(ctx, "cart-1", 99)
	if err != nil {
		t.Fatalf("GetCartItem() error = %v", err)
	}
	if absent != nil {
		t.Errorf("expected nil for absent line, got %+v", absent)
	}
}

func TestCartRepository_AddOrIncrementConverges(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Toy Plane", price(15.99))

	// Two units of work race through "look up existing line" before
	// either saves; both insert and the second lands as an increment.
	uow1 := NewUnitOfWork(db)
	defer uow1.Close()
	uow2 := NewUnitOfWork(db)
	defer uow2.Close()

	line1, _ := uow1.CartItems.GetCartItem(ctx, "cart-1", 1)
	line2, _ := uow2.CartItems.GetCartItem(ctx, "cart-1", 1)
	if line1 != nil || line2 != nil {
		t.Fatal("expected both callers to observe an absent line")
	}

	item1 := models.CartItem{ItemID: "a", CartID: "cart-1", ProductID: 1, Quantity: 1, DateCreated: time.Now()}
	item2 := models.CartItem{ItemID: "b", CartID: "cart-1", ProductID: 1, Quantity: 1, DateCreated: time.Now()}
	if err := uow1.CartItems.AddOrIncrement(&item1, 1); err != nil {
		t.Fatalf("AddOrIncrement() error = %v", err)
	}
	if err := uow2.CartItems.AddOrIncrement(&item2, 1); err != nil {
		t.Fatalf("AddOrIncrement() error = %v", err)
	}
	if _, err := uow1.SaveChanges(ctx); err != nil {
		t.Fatalf("first save error = %v", err)
	}
	if _, err := uow2.SaveChanges(ctx); err != nil {
		t.Fatalf("second save error = %v", err)
	}

	var lines []models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", "cart-1", 1).Find(&lines).Error; err != nil {
		t.Fatalf("failed to load lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("uniqueness violated: expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Errorf("lost update: expected quantity 2, got %d", lines[0].Quantity)
	}
}

func TestCartRepository_DecrementOrRemove(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Toy Plane", price(15.99))
	seedProduct(t, db, 2, "Toy Boat", price(24.99))
	seedCartItem(t, db, "cart-1", 1, 3)
	seedCartItem(t, db, "cart-1", 2, 1)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	t.Run("decrements above one", func(t *testing.T) {
		uow.CartItems.DecrementOrRemove("cart-1", 1)
		if _, err := uow.SaveChanges(ctx); err != nil {
			t.Fatalf("SaveChanges() error = %v", err)
		}
		item, _ := uow.CartItems.GetCartItem(ctx, "cart-1", 1)
		if item == nil || item.Quantity != 2 {
			t.Fatalf("expected quantity 2, got %+v", item)
		}
	})

	t.Run("deletes at one", func(t *testing.T) {
		uow.CartItems.DecrementOrRemove("cart-1", 2)
		if _, err := uow.SaveChanges(ctx); err != nil {
			t.Fatalf("SaveChanges() error = %v", err)
		}
		item, _ := uow.CartItems.GetCartItem(ctx, "cart-1", 2)
		if item != nil {
			t.Fatalf("expected line deleted, got %+v", item)
		}
	})

	t.Run("absent line is a no-op", func(t *testing.T) {
		uow.CartItems.DecrementOrRemove("cart-1", 99)
		if _, err := uow.SaveChanges(ctx); err != nil {
			t.Fatalf("SaveChanges() error = %v", err)
		}
	})
}

func TestCartRepository_EmptyCart(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Toy Plane", price(15.99))
	seedCartItem(t, db, "cart-1", 1, 2)
	seedCartItem(t, db, "cart-2", 1, 1)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	if err := uow.CartItems.EmptyCart("cart-1"); err != nil {
		t.Fatalf("EmptyCart() error = %v", err)
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges() error = %v", err)
	}

	items, _ := uow.CartItems.GetCartItems(ctx, "cart-1")
	if len(items) != 0 {
		t.Errorf("expected cart-1 empty, got %d items", len(items))
	}
	others, _ := uow.CartItems.GetCartItems(ctx, "cart-2")
	if len(others) != 1 {
		t.Errorf("expected cart-2 untouched, got %d items", len(others))
	}
}

func TestCartRepository_MigrateCartMerges(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Toy Plane", price(15.99))
	seedProduct(t, db, 3, "Toy Robot", price(34.50))
	// Cart A holds product 1 x2; cart B holds product 1 x1 and
	// product 3 x1.
	seedCartItem(t, db, "cart-a", 1, 2)
	seedCartItem(t, db, "cart-b", 1, 1)
	seedCartItem(t, db, "cart-b", 3, 1)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	if err := uow.CartItems.MigrateCart(ctx, "cart-a", "cart-b"); err != nil {
		t.Fatalf("MigrateCart() error = %v", err)
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges() error = %v", err)
	}

	source, _ := uow.CartItems.GetCartItems(ctx, "cart-a")
	if len(source) != 0 {
		t.Errorf("expected source cart empty after migration, got %d lines", len(source))
	}

	dest, _ := uow.CartItems.GetCartItems(ctx, "cart-b")
	if len(dest) != 2 {
		t.Fatalf("expected 2 lines in destination, got %d", len(dest))
	}
	byProduct := map[int]int{}
	for _, line := range dest {
		byProduct[line.ProductID] = line.Quantity
	}
	if byProduct[1] != 3 {
		t.Errorf("expected merged quantity 3 for product 1, got %d", byProduct[1])
	}
	if byProduct[3] != 1 {
		t.Errorf("expected quantity 1 for product 3, got %d", byProduct[3])
	}
}

func TestCartRepository_MigrateCartValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	uow := NewUnitOfWork(db)
	defer uow.Close()

	if err := uow.CartItems.MigrateCart(ctx, "", "cart-b"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for blank source id, got %v", err)
	}
	if err := uow.CartItems.MigrateCart(ctx, "cart-a", "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for blank destination id, got %v", err)
	}
}

func TestCartRepository_SetQuantity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Toy Plane", price(15.99))
	seedCartItem(t, db, "cart-1", 1, 2)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	if err := uow.CartItems.SetQuantity("cart-1", 1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero quantity, got %v", err)
	}
	if err := uow.CartItems.SetQuantity("cart-1", 1, -4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative quantity, got %v", err)
	}

	if err := uow.CartItems.SetQuantity("cart-1", 1, 7); err != nil {
		t.Fatalf("SetQuantity() error = %v", err)
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges() error = %v", err)
	}
	item, _ := uow.CartItems.GetCartItem(ctx, "cart-1", 1)
	if item == nil || item.Quantity != 7 {
		t.Errorf("expected quantity 7, got %+v", item)
	}
}
