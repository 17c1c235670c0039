package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wingtip/wingtip-api/controllers"
	"github.com/wingtip/wingtip-api/middlewares"
)

func CategoryRoutes(server *gin.Engine) {
	server.GET("/category", controllers.GetCategories)
	server.GET("/category/:name", controllers.GetCategoryByName)
	server.POST("/category", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.CreateCategory)
}
