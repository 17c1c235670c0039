package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Wingtip Toys API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account (migrates the anonymous cart)

PRODUCT
- POST "/product" - Create new product (admin)
- GET "/product" - Get all products (?search=, ?categoryId=)
- GET "/product/featured" - Get featured products
- GET "/product/:id" - Get product by ID
- POST "/product-image" - Upload product image (admin)

CATEGORY
- POST "/category" - Create category (admin)
- GET "/category" - Get categories (?nonEmpty=true)
- GET "/category/:name" - Get category by name

CART (cart id travels in the X-Cart-Id header)
- GET "/cart" - Get cart items, total and count
- POST "/cart/:productId" - Add product to cart
- DELETE "/cart/:productId" - Remove one unit from cart
- PATCH "/cart/:productId" - Set cart line quantity
- DELETE "/cart" - Empty cart

ORDER
- POST "/order/checkout" - Place an order from the cart
- GET "/order/mine" - Get the caller's orders
- GET "/order/:orderId" - Get order with details
- GET "/order/unshipped" - Get unshipped orders (admin)
- PATCH "/order/:orderId/ship" - Mark order as shipped (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
