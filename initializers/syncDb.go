package initializers

import (
	"log"

	"github.com/wingtip/wingtip-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderDetail{},
	)
	log.Println("Database synced successfully.")
}
