package controllers

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wingtip/wingtip-api/cart"
	"github.com/wingtip/wingtip-api/initializers"
	"github.com/wingtip/wingtip-api/models"
	"github.com/wingtip/wingtip-api/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	msgInvalidInput       = "invalid input"
	msgUserAlreadyExists  = "user already exists"
	msgInvalidCredentials = "invalid email or password"
	msgUserCreated        = "User created successfully."
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

func checkUserExists(email, username string) (bool, error) {
	var existingUser models.User
	result := initializers.DB.Where("email = ? OR username = ?", email, username).Find(&existingUser)
	return result.RowsAffected > 0, result.Error
}

func Signup(ctx *gin.Context) {
	var user models.User
	if err := ctx.ShouldBindJSON(&user); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	exists, err := checkUserExists(user.Email, user.Username)
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to verify user")
		return
	}
	if exists {
		sendErrorResponse(ctx, http.StatusConflict, msgUserAlreadyExists)
		return
	}

	hashed, err := hashPassword(user.Password)
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}
	user.Password = hashed
	if user.Role == "" {
		user.Role = "customer"
	}

	if result := initializers.DB.Create(&user); result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to create user")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated})
}

// Login verifies credentials and hands back a JWT. When the caller
// carries an anonymous cart id, that cart is migrated onto the
// username so the items follow the customer across devices.
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	result := initializers.DB.Where("email = ?", loginData.Email).First(&user)
	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := generateJWT(user)
	if err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}

	if anonCartID := ctx.GetHeader(cartIDHeader); anonCartID != "" && anonCartID != user.Username {
		uow := repositories.NewUnitOfWork(initializers.DB)
		defer uow.Close()
		if err := cart.New(uow).MigrateCart(ctx.Request.Context(), anonCartID, user.Username); err != nil {
			// The customer can still shop; the anonymous cart just
			// stays behind.
			log.Printf("Cart migration from %s failed: %v", anonCartID, err)
		}
	}
	ctx.Header(cartIDHeader, user.Username)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"token":  token,
		"cartId": user.Username,
	})
}
