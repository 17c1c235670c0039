package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wingtip/wingtip-api/models"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, id int, username string, date time.Time, shipped bool) models.Order {
	t.Helper()
	order := models.Order{
		OrderID: id, OrderDate: date, Username: username,
		FirstName: "Test", LastName: "Customer", Address: "1 Main St",
		City: "Springfield", State: "IL", PostalCode: "62701",
		Country: "USA", Email: username + "@example.com",
		HasBeenShipped: shipped,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order %d: %v", id, err)
	}
	return order
}

func TestOrderRepository_GetOrdersByUsername(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seedOrder(t, db, 1, "alice", base, false)
	seedOrder(t, db, 2, "alice", base.Add(48*time.Hour), false)
	seedOrder(t, db, 3, "bob", base.Add(24*time.Hour), false)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	orders, err := uow.Orders.GetOrdersByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetOrdersByUsername() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for alice, got %d", len(orders))
	}
	// Newest first.
	if orders[0].OrderID != 2 || orders[1].OrderID != 1 {
		t.Errorf("expected order ids [2 1], got [%d %d]", orders[0].OrderID, orders[1].OrderID)
	}

	none, err := uow.Orders.GetOrdersByUsername(ctx, "")
	if err != nil {
		t.Fatalf("GetOrdersByUsername(blank) error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty slice for blank username, got %d", len(none))
	}
}

func TestOrderRepository_GetUnshippedOrders(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seedOrder(t, db, 1, "alice", base.Add(48*time.Hour), false)
	seedOrder(t, db, 2, "bob", base, false)
	seedOrder(t, db, 3, "carol", base.Add(24*time.Hour), true)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	orders, err := uow.Orders.GetUnshippedOrders(ctx)
	if err != nil {
		t.Fatalf("GetUnshippedOrders() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 unshipped orders, got %d", len(orders))
	}
	// Oldest first.
	if orders[0].OrderID != 2 || orders[1].OrderID != 1 {
		t.Errorf("expected order ids [2 1], got [%d %d]", orders[0].OrderID, orders[1].OrderID)
	}
}

func TestOrderRepository_GetOrderWithDetails(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedProduct(t, db, 1, "Toy Plane", price(15.99))
	order := seedOrder(t, db, 1, "alice", time.Now(), false)
	detail := models.OrderDetail{
		OrderID: order.OrderID, Username: "alice", ProductID: 1,
		ProductName: "Toy Plane", Quantity: 2, UnitPrice: 15.99,
	}
	if err := db.Create(&detail).Error; err != nil {
		t.Fatalf("failed to seed order detail: %v", err)
	}

	uow := NewUnitOfWork(db)
	defer uow.Close()

	t.Run("existing order", func(t *testing.T) {
		got, err := uow.Orders.GetOrderWithDetails(ctx, 1)
		if err != nil {
			t.Fatalf("GetOrderWithDetails() error = %v", err)
		}
		if len(got.OrderDetails) != 1 {
			t.Fatalf("expected 1 detail, got %d", len(got.OrderDetails))
		}
		if got.OrderDetails[0].Product == nil || got.OrderDetails[0].Product.ProductName != "Toy Plane" {
			t.Errorf("expected product joined onto the detail, got %+v", got.OrderDetails[0].Product)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := uow.Orders.GetOrderWithDetails(ctx, 99)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestOrderRepository_MarkOrderAsShipped(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedOrder(t, db, 1, "alice", time.Now(), false)

	uow := NewUnitOfWork(db)
	defer uow.Close()

	t.Run("missing order", func(t *testing.T) {
		err := uow.Orders.MarkOrderAsShipped(ctx, 99)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("queues but does not save", func(t *testing.T) {
		if err := uow.Orders.MarkOrderAsShipped(ctx, 1); err != nil {
			t.Fatalf("MarkOrderAsShipped() error = %v", err)
		}

		var before models.Order
		db.First(&before, 1)
		if before.HasBeenShipped {
			t.Fatal("shipped flag must not persist before SaveChanges")
		}

		if _, err := uow.SaveChanges(ctx); err != nil {
			t.Fatalf("SaveChanges() error = %v", err)
		}
		var after models.Order
		db.First(&after, 1)
		if !after.HasBeenShipped {
			t.Error("shipped flag not persisted after SaveChanges")
		}
	})
}
