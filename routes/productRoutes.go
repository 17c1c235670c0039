package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wingtip/wingtip-api/controllers"
	"github.com/wingtip/wingtip-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/product", controllers.GetProducts)
	server.GET("/product/featured", controllers.GetFeaturedProducts)
	server.GET("/product/:id", controllers.GetProduct)
	server.POST("/product", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.CreateProduct)
	server.POST("/product-image", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.UploadProductImage)
}
