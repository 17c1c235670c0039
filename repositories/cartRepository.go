package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wingtip/wingtip-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository extends the generic store with cart aggregation and
// migration. A cart is just the set of CartItem rows sharing a cart
// id; there is no cart row of its own.
type CartRepository struct {
	*Repository[models.CartItem]
}

func NewCartRepository(session *Session) *CartRepository {
	return &CartRepository{Repository: NewRepository[models.CartItem](session)}
}

// GetCartItems returns the cart's lines with their products loaded.
// A blank cart id yields an empty slice, not an error.
func (r *CartRepository) GetCartItems(ctx context.Context, cartID string) ([]models.CartItem, error) {
	if strings.TrimSpace(cartID) == "" {
		return []models.CartItem{}, nil
	}
	tx, err := r.reader(ctx, WithRelated("Product"))
	if err != nil {
		return nil, err
	}
	var items []models.CartItem
	if err := tx.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetCartItem returns the line for (cartID, productID), or nil when
// absent.
func (r *CartRepository) GetCartItem(ctx context.Context, cartID string, productID int) (*models.CartItem, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, nil
	}
	tx, err := r.reader(ctx, WithRelated("Product"))
	if err != nil {
		return nil, err
	}
	var item models.CartItem
	err = tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetCartTotal sums quantity times the live product price over the
// cart. Products without a price count as zero.
func (r *CartRepository) GetCartTotal(ctx context.Context, cartID string) (float64, error) {
	if strings.TrimSpace(cartID) == "" {
		return 0, nil
	}
	tx, err := r.reader(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	err = tx.Model(&models.CartItem{}).
		Select("COALESCE(SUM(cart_items.quantity * COALESCE(products.unit_price, 0)), 0)").
		Joins("LEFT JOIN products ON products.product_id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// GetCartItemCount sums the quantities over the cart.
func (r *CartRepository) GetCartItemCount(ctx context.Context, cartID string) (int, error) {
	if strings.TrimSpace(cartID) == "" {
		return 0, nil
	}
	tx, err := r.reader(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	err = tx.Model(&models.CartItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("cart_id = ?", cartID).
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AddOrIncrement queues an insert of the line that falls back to an
// atomic quantity increment when the (cart id, product id) pair
// already exists. Together with the unique index this closes the
// concurrent-add race: two racing adds converge on one row.
func (r *CartRepository) AddOrIncrement(item *models.CartItem, by int) error {
	if item == nil {
		return fmt.Errorf("%w: nil cart item", ErrInvalidArgument)
	}
	if by <= 0 {
		return fmt.Errorf("%w: increment must be positive", ErrInvalidArgument)
	}
	r.session.enqueue(func(conn *gorm.DB) (int64, error) {
		result := conn.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("quantity + ?", by),
			}),
		}).Create(item)
		return result.RowsAffected, result.Error
	})
	return nil
}

// SetQuantity queues an exact quantity write for an existing line.
// When no line matches, the flush affects zero rows, which callers
// treat as a no-op.
func (r *CartRepository) SetQuantity(cartID string, productID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	r.session.enqueue(func(conn *gorm.DB) (int64, error) {
		result := conn.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			Update("quantity", quantity)
		return result.RowsAffected, result.Error
	})
	return nil
}

// DecrementOrRemove queues a decrement of the line that deletes it
// instead of letting the quantity reach zero. Absent lines are left
// alone. The delete must run before the decrement so a line going
// from 2 to 1 survives the flush.
func (r *CartRepository) DecrementOrRemove(cartID string, productID int) error {
	r.session.enqueue(func(conn *gorm.DB) (int64, error) {
		result := conn.
			Where("cart_id = ? AND product_id = ? AND quantity = 1", cartID, productID).
			Delete(&models.CartItem{})
		if result.Error != nil {
			return result.RowsAffected, result.Error
		}
		if result.RowsAffected > 0 {
			return result.RowsAffected, nil
		}
		result = conn.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ? AND quantity > 1", cartID, productID).
			Update("quantity", gorm.Expr("quantity - 1"))
		return result.RowsAffected, result.Error
	})
	return nil
}

// EmptyCart queues removal of every line in the cart. A blank or
// unknown cart id is a no-op.
func (r *CartRepository) EmptyCart(cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return nil
	}
	r.session.enqueue(func(conn *gorm.DB) (int64, error) {
		result := conn.Where("cart_id = ?", cartID).Delete(&models.CartItem{})
		return result.RowsAffected, result.Error
	})
	return nil
}

// MigrateCart moves every line from the old cart to the new one,
// merging quantities where the destination already holds the same
// product, so the (cart id, product id) uniqueness invariant never
// breaks. Callers should run this inside a transaction.
func (r *CartRepository) MigrateCart(ctx context.Context, oldCartID, newCartID string) error {
	if strings.TrimSpace(oldCartID) == "" || strings.TrimSpace(newCartID) == "" {
		return fmt.Errorf("%w: cart ids cannot be blank for migration", ErrInvalidArgument)
	}

	source, err := r.GetCartItems(ctx, oldCartID)
	if err != nil {
		return err
	}
	dest, err := r.GetCartItems(ctx, newCartID)
	if err != nil {
		return err
	}

	destProducts := make(map[int]struct{}, len(dest))
	for _, line := range dest {
		destProducts[line.ProductID] = struct{}{}
	}

	for _, line := range source {
		line := line
		if _, exists := destProducts[line.ProductID]; exists {
			r.session.enqueue(func(conn *gorm.DB) (int64, error) {
				result := conn.Model(&models.CartItem{}).
					Where("cart_id = ? AND product_id = ?", newCartID, line.ProductID).
					Update("quantity", gorm.Expr("quantity + ?", line.Quantity))
				return result.RowsAffected, result.Error
			})
			r.session.enqueue(func(conn *gorm.DB) (int64, error) {
				result := conn.Where("item_id = ?", line.ItemID).Delete(&models.CartItem{})
				return result.RowsAffected, result.Error
			})
		} else {
			r.session.enqueue(func(conn *gorm.DB) (int64, error) {
				result := conn.Model(&models.CartItem{}).
					Where("item_id = ?", line.ItemID).
					Update("cart_id", newCartID)
				return result.RowsAffected, result.Error
			})
		}
	}
	return nil
}
