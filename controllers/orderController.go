package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wingtip/wingtip-api/cart"
	"github.com/wingtip/wingtip-api/initializers"
	"github.com/wingtip/wingtip-api/models"
	"github.com/wingtip/wingtip-api/repositories"
	"github.com/wingtip/wingtip-api/utils"
)

type checkoutRequest struct {
	FirstName  string `json:"firstName" binding:"required,max=160"`
	LastName   string `json:"lastName" binding:"required,max=160"`
	Address    string `json:"address" binding:"required,max=70"`
	City       string `json:"city" binding:"required,max=40"`
	State      string `json:"state" binding:"required,max=40"`
	PostalCode string `json:"postalCode" binding:"required,max=10"`
	Country    string `json:"country" binding:"required,max=40"`
	Phone      string `json:"phone" binding:"max=24"`
	Email      string `json:"email" binding:"required,email"`
}

func usernameFrom(ctx *gin.Context) string {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return ""
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	username, _ := claims["username"].(string)
	return username
}

// submitPaymentRequest sends the order to the payment gateway and
// returns the gateway's transaction id plus its raw response body.
func submitPaymentRequest(order *models.Order) (string, []byte, error) {
	gatewayURL := os.Getenv("PAYMENT_API_URL")
	apiKey := os.Getenv("PAYMENT_API_KEY")
	if gatewayURL == "" || apiKey == "" {
		return "", nil, fmt.Errorf("payment gateway credentials are not set")
	}

	payload := map[string]any{
		"reference":   fmt.Sprintf("ORDER-%d", order.OrderID),
		"amount":      order.Total,
		"currency":    "USD",
		"description": fmt.Sprintf("Payment for order #%d", order.OrderID),
		"billing_address": map[string]any{
			"email_address": order.Email,
			"phone_number":  order.Phone,
			"first_name":    order.FirstName,
			"last_name":     order.LastName,
			"city":          order.City,
			"line_1":        order.Address,
			"postal_code":   order.PostalCode,
			"country":       order.Country,
		},
	}

	resp, err := resty.New().SetTimeout(30 * time.Second).
		R().
		SetHeaders(map[string]string{
			"Authorization": "Bearer " + apiKey,
			"Accept":        "application/json",
			"Content-Type":  "application/json",
		}).
		SetBody(payload).
		Post(gatewayURL + "/v1/transactions")
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", nil, fmt.Errorf("payment request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var gatewayResp struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := json.Unmarshal(resp.Body(), &gatewayResp); err != nil {
		return "", nil, fmt.Errorf("failed to parse payment response: %w", err)
	}
	if gatewayResp.TransactionID == "" {
		return "", nil, fmt.Errorf("transaction id not found in payment response")
	}

	return gatewayResp.TransactionID, resp.Body(), nil
}

// Checkout turns the caller's cart into an order. Order, details and
// cart cleanup commit in one transaction; the payment submission and
// confirmation email follow.
func Checkout(ctx *gin.Context) {
	var info checkoutRequest
	if err := ctx.ShouldBindJSON(&info); err != nil {
		log.Printf("JSON binding error: %v", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	username := usernameFrom(ctx)
	if username == "" {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cartID := cartIDFrom(ctx)
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()
	reqCtx := ctx.Request.Context()

	items, err := cart.New(uow).GetItems(reqCtx, cartID)
	if err != nil {
		sendErrorResponse(ctx, statusFromError(err), "Failed to read cart")
		return
	}
	if len(items) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Cart is empty")
		return
	}

	var total float64
	for _, item := range items {
		if item.Product != nil && item.Product.UnitPrice != nil {
			total += float64(item.Quantity) * *item.Product.UnitPrice
		}
	}

	if err := uow.BeginTransaction(reqCtx); err != nil {
		sendErrorResponse(ctx, statusFromError(err), "Failed to create order")
		return
	}

	order := models.Order{
		OrderDate:  time.Now(),
		Username:   username,
		FirstName:  info.FirstName,
		LastName:   info.LastName,
		Address:    info.Address,
		City:       info.City,
		State:      info.State,
		PostalCode: info.PostalCode,
		Country:    info.Country,
		Phone:      info.Phone,
		Email:      info.Email,
		Total:      total,
	}
	if err := uow.Orders.Add(&order); err != nil {
		uow.RollbackTransaction()
		sendErrorResponse(ctx, statusFromError(err), "Failed to create order")
		return
	}
	// Flush inside the transaction so the order gets its id for the
	// detail rows.
	if _, err := uow.SaveChanges(reqCtx); err != nil {
		sendErrorResponse(ctx, statusFromError(err), "Failed to create order")
		return
	}

	details := make([]models.OrderDetail, 0, len(items))
	for _, item := range items {
		var price float64
		productName := ""
		if item.Product != nil {
			productName = item.Product.ProductName
			if item.Product.UnitPrice != nil {
				price = *item.Product.UnitPrice
			}
		}
		details = append(details, models.OrderDetail{
			OrderID:     order.OrderID,
			Username:    username,
			ProductID:   item.ProductID,
			ProductName: productName,
			Quantity:    item.Quantity,
			UnitPrice:   price,
		})
	}
	if err := uow.OrderDetails.AddRange(details); err != nil {
		uow.RollbackTransaction()
		sendErrorResponse(ctx, statusFromError(err), "Failed to create order items")
		return
	}
	if err := uow.CartItems.EmptyCart(cartID); err != nil {
		uow.RollbackTransaction()
		sendErrorResponse(ctx, statusFromError(err), "Failed to clear cart")
		return
	}
	if err := uow.CommitTransaction(reqCtx); err != nil {
		log.Println("Checkout commit error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save order")
		return
	}

	transactionID, rawResponse, err := submitPaymentRequest(&order)
	if err != nil {
		log.Printf("Payment error for order %d: %v", order.OrderID, err)
		sendJSONResponse(ctx, http.StatusAccepted, gin.H{
			"message": "Order created, but payment could not be initiated. Try paying again.",
			"orderId": order.OrderID,
		})
		return
	}

	order.PaymentTransactionID = transactionID
	order.PaymentMeta = rawResponse
	if err := uow.Orders.Update(&order); err != nil {
		log.Printf("Order %d created, but transaction id %s not queued: %v", order.OrderID, transactionID, err)
	} else if _, err := uow.SaveChanges(reqCtx); err != nil {
		log.Printf("Order %d created, but transaction id %s not saved: %v", order.OrderID, transactionID, err)
	}

	if err := utils.SendOrderConfirmation(order.Email, info.FirstName, order.OrderID, order.Total); err != nil {
		log.Printf("Failed to send confirmation for order %d: %v", order.OrderID, err)
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":       "Order placed successfully.",
		"orderId":       order.OrderID,
		"transactionId": transactionID,
	})
}

func GetMyOrders(ctx *gin.Context) {
	username := usernameFrom(ctx)
	if username == "" {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	orders, err := uow.Orders.GetOrdersByUsername(ctx.Request.Context(), username)
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to fetch orders.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func GetOrderById(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	order, err := uow.Orders.GetOrderWithDetails(ctx.Request.Context(), orderID)
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to fetch order.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func GetUnshippedOrders(ctx *gin.Context) {
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	orders, err := uow.Orders.GetUnshippedOrders(ctx.Request.Context())
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to fetch unshipped orders.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func MarkOrderShipped(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()
	reqCtx := ctx.Request.Context()

	if err := uow.Orders.MarkOrderAsShipped(reqCtx, orderID); err != nil {
		log.Println(err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to mark order as shipped")
		return
	}
	if _, err := uow.SaveChanges(reqCtx); err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to mark order as shipped")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order marked as shipped."})
}
