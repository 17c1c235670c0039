package models

import (
	"time"

	"gorm.io/datatypes"
)

type Order struct {
	OrderID    int       `json:"orderId" gorm:"primaryKey"`
	OrderDate  time.Time `json:"orderDate" gorm:"not null"`
	Username   string    `json:"username" gorm:"size:256;not null" binding:"required,max=256"`
	FirstName  string    `json:"firstName" gorm:"size:160;not null" binding:"required,max=160"`
	LastName   string    `json:"lastName" gorm:"size:160;not null" binding:"required,max=160"`
	Address    string    `json:"address" gorm:"size:70;not null" binding:"required,max=70"`
	City       string    `json:"city" gorm:"size:40;not null" binding:"required,max=40"`
	State      string    `json:"state" gorm:"size:40;not null" binding:"required,max=40"`
	PostalCode string    `json:"postalCode" gorm:"size:10;not null" binding:"required,max=10"`
	Country    string    `json:"country" gorm:"size:40;not null" binding:"required,max=40"`
	Phone      string    `json:"phone" gorm:"size:24" binding:"max=24"`
	Email      string    `json:"email" gorm:"not null" binding:"required,email"`
	// Total is cached from the order detail sums at checkout time and
	// is not recomputed afterwards.
	Total                float64        `json:"total" gorm:"type:decimal(18,2);not null" binding:"gte=0"`
	PaymentTransactionID string         `json:"paymentTransactionId" gorm:"size:100"`
	PaymentMeta          datatypes.JSON `json:"paymentMeta,omitempty"`
	HasBeenShipped       bool           `json:"hasBeenShipped" gorm:"not null;default:false"`
	OrderDetails         []OrderDetail  `json:"orderDetails,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderDetail snapshots the product name and price so the order stays
// historically accurate if the product row changes later.
type OrderDetail struct {
	OrderDetailID int      `json:"orderDetailId" gorm:"primaryKey"`
	OrderID       int      `json:"orderId" gorm:"not null"`
	Username      string   `json:"username" gorm:"size:256;not null"`
	ProductID     int      `json:"productId" gorm:"not null"`
	ProductName   string   `json:"productName" gorm:"size:100;not null"`
	Quantity      int      `json:"quantity" gorm:"not null" binding:"gte=1"`
	UnitPrice     float64  `json:"unitPrice" gorm:"type:decimal(18,2);not null" binding:"gt=0"`
	Product       *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
