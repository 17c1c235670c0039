package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wingtip/wingtip-api/controllers"
)

func CartRoutes(server *gin.Engine) {
	server.GET("/cart", controllers.GetCart)
	server.POST("/cart/:productId", controllers.AddToCart)
	server.DELETE("/cart/:productId", controllers.RemoveFromCart)
	server.PATCH("/cart/:productId", controllers.UpdateCartItemQuantity)
	server.DELETE("/cart", controllers.EmptyCart)
}
