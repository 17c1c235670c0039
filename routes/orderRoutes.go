package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wingtip/wingtip-api/controllers"
	"github.com/wingtip/wingtip-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	order := server.Group("/order", middlewares.RequireAuth())
	{
		order.POST("/checkout", controllers.Checkout)
		order.GET("/mine", controllers.GetMyOrders)
		order.GET("/unshipped", middlewares.RequireAdmin(), controllers.GetUnshippedOrders)
		order.GET("/:orderId", controllers.GetOrderById)
		order.PATCH("/:orderId/ship", middlewares.RequireAdmin(), controllers.MarkOrderShipped)
	}
}
