package models

type Category struct {
	CategoryID   int       `json:"categoryId" gorm:"primaryKey"`
	CategoryName string    `json:"categoryName" gorm:"size:100;not null" binding:"required,max=100"`
	Description  string    `json:"description" gorm:"size:500" binding:"max=500"`
	Products     []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	ProductID   int    `json:"productId" gorm:"primaryKey"`
	ProductName string `json:"productName" gorm:"size:100;not null" binding:"required,max=100"`
	Description string `json:"description" gorm:"size:10000;not null" binding:"required,max=10000"`
	ImagePath   string `json:"imagePath" gorm:"size:500"`
	// A nil price means the price has not been decided yet; it is never
	// zero or negative once set.
	UnitPrice  *float64  `json:"unitPrice" gorm:"type:decimal(18,2)" binding:"omitempty,gt=0"`
	CategoryID *int      `json:"categoryId"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
