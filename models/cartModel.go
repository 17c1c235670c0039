package models

import "time"

// CartItem is one cart line. The unique index on (cart_id, product_id)
// guarantees at most one line per product in a cart, even under
// concurrent adds.
type CartItem struct {
	ItemID    string `json:"itemId" gorm:"primaryKey;size:50"`
	CartID    string `json:"cartId" gorm:"size:50;not null;uniqueIndex:idx_cart_product"`
	ProductID int    `json:"productId" gorm:"not null;uniqueIndex:idx_cart_product"`
	Quantity  int    `json:"quantity" gorm:"not null" binding:"gte=1"`
	// Price of the product when the line was created. Cart totals use
	// the live product price; this snapshot records what the customer
	// saw at add time.
	UnitPrice   float64   `json:"unitPrice" gorm:"type:decimal(18,2)"`
	DateCreated time.Time `json:"dateCreated" gorm:"not null"`
	Product     *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
