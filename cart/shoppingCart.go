// Package cart implements the shopping cart operations layered on the
// unit of work: merge-on-add, decrement-on-remove and cart-to-cart
// migration.
package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wingtip/wingtip-api/models"
	"github.com/wingtip/wingtip-api/repositories"
)

// ShoppingCart drives one cart through a request-scoped unit of work.
// Like the unit of work it wraps, an instance serves one request at a
// time.
type ShoppingCart struct {
	uow *repositories.UnitOfWork
}

func New(uow *repositories.UnitOfWork) *ShoppingCart {
	return &ShoppingCart{uow: uow}
}

// AddToCart puts one unit of the product into the cart. A first add
// creates the line with a price snapshot; later adds increment the
// quantity. The insert-or-increment is atomic, so concurrent adds for
// the same (cart, product) pair converge on a single line.
func (c *ShoppingCart) AddToCart(ctx context.Context, cartID string, productID int) (*models.CartItem, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, fmt.Errorf("%w: blank cart id", repositories.ErrInvalidArgument)
	}

	product, err := c.uow.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var price float64
	if product.UnitPrice != nil {
		price = *product.UnitPrice
	}

	item := &models.CartItem{
		ItemID:      uuid.NewString(),
		CartID:      cartID,
		ProductID:   productID,
		Quantity:    1,
		UnitPrice:   price,
		DateCreated: time.Now(),
	}
	if err := c.uow.CartItems.AddOrIncrement(item, 1); err != nil {
		return nil, err
	}
	if _, err := c.uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return c.uow.CartItems.GetCartItem(ctx, cartID, productID)
}

// RemoveFromCart takes one unit of the product out of the cart. A
// line at quantity one is deleted; an absent line is a no-op.
func (c *ShoppingCart) RemoveFromCart(ctx context.Context, cartID string, productID int) error {
	if strings.TrimSpace(cartID) == "" {
		return nil
	}
	if err := c.uow.CartItems.DecrementOrRemove(cartID, productID); err != nil {
		return err
	}
	_, err := c.uow.SaveChanges(ctx)
	return err
}

// UpdateQuantity sets the line's quantity exactly. Non-positive
// quantities fail with ErrInvalidArgument; an absent line is a no-op.
func (c *ShoppingCart) UpdateQuantity(ctx context.Context, cartID string, productID, quantity int) error {
	if err := c.uow.CartItems.SetQuantity(cartID, productID, quantity); err != nil {
		return err
	}
	_, err := c.uow.SaveChanges(ctx)
	return err
}

// EmptyCart removes every line in the cart.
func (c *ShoppingCart) EmptyCart(ctx context.Context, cartID string) error {
	if err := c.uow.CartItems.EmptyCart(cartID); err != nil {
		return err
	}
	_, err := c.uow.SaveChanges(ctx)
	return err
}

// MigrateCart moves an anonymous cart onto a user-bound cart id,
// merging quantities where both carts hold the same product. Runs in
// its own transaction so a half-applied merge can never be observed.
func (c *ShoppingCart) MigrateCart(ctx context.Context, oldCartID, newCartID string) error {
	if err := c.uow.BeginTransaction(ctx); err != nil {
		return err
	}
	if err := c.uow.CartItems.MigrateCart(ctx, oldCartID, newCartID); err != nil {
		if rbErr := c.uow.RollbackTransaction(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	return c.uow.CommitTransaction(ctx)
}

// GetItems returns the cart's lines with products loaded.
func (c *ShoppingCart) GetItems(ctx context.Context, cartID string) ([]models.CartItem, error) {
	return c.uow.CartItems.GetCartItems(ctx, cartID)
}

// GetTotal returns the cart total at live product prices.
func (c *ShoppingCart) GetTotal(ctx context.Context, cartID string) (float64, error) {
	return c.uow.CartItems.GetCartTotal(ctx, cartID)
}

// GetCount returns the summed quantity across the cart's lines.
func (c *ShoppingCart) GetCount(ctx context.Context, cartID string) (int, error) {
	return c.uow.CartItems.GetCartItemCount(ctx, cartID)
}
