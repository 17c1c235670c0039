package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/wingtip/wingtip-api/models"
)

// OrderRepository extends the generic store with fulfilment queries.
type OrderRepository struct {
	*Repository[models.Order]
}

func NewOrderRepository(session *Session) *OrderRepository {
	return &OrderRepository{Repository: NewRepository[models.Order](session)}
}

// GetOrdersByUsername lists a customer's orders, newest first. A
// blank username yields an empty slice.
func (r *OrderRepository) GetOrdersByUsername(ctx context.Context, username string) ([]models.Order, error) {
	if strings.TrimSpace(username) == "" {
		return []models.Order{}, nil
	}
	tx, err := r.reader(ctx, WithRelated("OrderDetails"), WithOrder("order_date DESC"))
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := tx.Where("username = ?", username).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrderWithDetails returns the order with its details and their
// products joined, or ErrNotFound.
func (r *OrderRepository) GetOrderWithDetails(ctx context.Context, orderID int) (*models.Order, error) {
	order, err := r.GetByID(ctx, orderID, WithRelated("OrderDetails.Product"))
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetUnshippedOrders lists orders awaiting shipment, oldest first.
func (r *OrderRepository) GetUnshippedOrders(ctx context.Context) ([]models.Order, error) {
	tx, err := r.reader(ctx, WithRelated("OrderDetails"), WithOrder("order_date ASC"))
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := tx.Where("has_been_shipped = ?", false).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkOrderAsShipped sets the shipped flag and queues the update. It
// does not save; the caller decides when the unit of work flushes.
func (r *OrderRepository) MarkOrderAsShipped(ctx context.Context, orderID int) error {
	order, err := r.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("mark order %d as shipped: %w", orderID, err)
	}
	order.HasBeenShipped = true
	return r.Update(order)
}
