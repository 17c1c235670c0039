package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wingtip/wingtip-api/cart"
	"github.com/wingtip/wingtip-api/initializers"
	"github.com/wingtip/wingtip-api/repositories"
)

const cartIDHeader = "X-Cart-Id"

// cartIDFrom reads the caller's cart id from the request header,
// minting a fresh one for first-time visitors. The id is echoed back
// so the client can keep it.
func cartIDFrom(ctx *gin.Context) string {
	cartID := ctx.GetHeader(cartIDHeader)
	if cartID == "" {
		cartID = uuid.NewString()
	}
	ctx.Header(cartIDHeader, cartID)
	return cartID
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, repositories.ErrTransactionInProgress),
		errors.Is(err, repositories.ErrNoTransaction):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func AddToCart(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product id")
		return
	}

	cartID := cartIDFrom(ctx)
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	item, err := cart.New(uow).AddToCart(ctx.Request.Context(), cartID, productID)
	if err != nil {
		log.Println("Add to cart error:", err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to add product to cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Product added to cart",
		"cartId":  cartID,
		"item":    item,
	})
}

func RemoveFromCart(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product id")
		return
	}

	cartID := cartIDFrom(ctx)
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	if err := cart.New(uow).RemoveFromCart(ctx.Request.Context(), cartID, productID); err != nil {
		log.Println("Remove from cart error:", err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to remove product from cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product removed from cart"})
}

func UpdateCartItemQuantity(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("productId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product id")
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	cartID := cartIDFrom(ctx)
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	if err := cart.New(uow).UpdateQuantity(ctx.Request.Context(), cartID, productID, body.Quantity); err != nil {
		log.Println("Update quantity error:", err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to update cart item quantity")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item quantity updated"})
}

func GetCart(ctx *gin.Context) {
	cartID := cartIDFrom(ctx)
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	sc := cart.New(uow)
	reqCtx := ctx.Request.Context()

	items, err := sc.GetItems(reqCtx, cartID)
	if err != nil {
		log.Println("Get cart error:", err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to fetch cart")
		return
	}
	total, err := sc.GetTotal(reqCtx, cartID)
	if err != nil {
		log.Println("Get cart total error:", err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to fetch cart total")
		return
	}
	count, err := sc.GetCount(reqCtx, cartID)
	if err != nil {
		log.Println("Get cart count error:", err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to fetch cart count")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"cartId": cartID,
		"items":  items,
		"total":  total,
		"count":  count,
	})
}

func EmptyCart(ctx *gin.Context) {
	cartID := cartIDFrom(ctx)
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	if err := cart.New(uow).EmptyCart(ctx.Request.Context(), cartID); err != nil {
		log.Println("Empty cart error:", err)
		sendErrorResponse(ctx, statusFromError(err), "Failed to empty cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart emptied"})
}
