package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/wingtip/wingtip-api/initializers"
	"github.com/wingtip/wingtip-api/models"
	"github.com/wingtip/wingtip-api/repositories"
)

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	if err := uow.Products.Add(&product); err != nil {
		respondWithError(ctx, statusFromError(err), "Failed to create product", err)
		return
	}
	if _, err := uow.SaveChanges(ctx.Request.Context()); err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

func GetProducts(ctx *gin.Context) {
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()
	reqCtx := ctx.Request.Context()

	if search := ctx.Query("search"); search != "" {
		products, err := uow.Products.GetProductsByName(reqCtx, search)
		if err != nil {
			respondWithError(ctx, statusFromError(err), "Unable to search products", err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"products": products})
		return
	}

	if categoryStr := ctx.Query("categoryId"); categoryStr != "" {
		categoryID, err := strconv.Atoi(categoryStr)
		if err != nil {
			respondWithError(ctx, http.StatusBadRequest, "Invalid category id", err)
			return
		}
		products, err := uow.Products.GetProductsByCategory(reqCtx, categoryID)
		if err != nil {
			respondWithError(ctx, statusFromError(err), "Unable to fetch products", err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"products": products})
		return
	}

	products, err := uow.Products.GetAll(reqCtx, repositories.WithRelated("Category"))
	if err != nil {
		respondWithError(ctx, statusFromError(err), "Unable to fetch products", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func GetFeaturedProducts(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	products, err := uow.Products.GetFeaturedProducts(ctx.Request.Context(), limit)
	if err != nil {
		respondWithError(ctx, statusFromError(err), "Unable to fetch featured products", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func GetProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	product, err := uow.Products.GetByID(ctx.Request.Context(), productID)
	if err != nil {
		respondWithError(ctx, statusFromError(err), "Unable to retrieve product", err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// getAWSUploader returns a configured AWS S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

// UploadProductImage stores the product's photo in S3 and records the
// resulting URL as the product's image path.
func UploadProductImage(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No file uploaded", err)
		return
	}

	productIDStr := ctx.PostForm("productId")
	productID, err := strconv.Atoi(productIDStr)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid productId", err)
		return
	}

	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()
	reqCtx := ctx.Request.Context()

	product, err := uow.Products.GetByID(reqCtx, productID)
	if err != nil {
		respondWithError(ctx, statusFromError(err), "Failed to validate product", err)
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to read file", err)
		return
	}
	defer f.Close()

	uniqueFilename := fmt.Sprintf("%d-%s-%s", productID, time.Now().Format("20060102150405"), file.Filename)
	result, err := uploader.Upload(reqCtx, &s3.PutObjectInput{
		Bucket:      aws.String("wingtiptoys"),
		Key:         aws.String(uniqueFilename),
		Body:        f,
		ACL:         "public-read",
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		log.Printf("Error uploading file %s: %v", file.Filename, err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to upload image", err)
		return
	}

	product.ImagePath = result.Location
	if err := uow.Products.Update(product); err != nil {
		respondWithError(ctx, statusFromError(err), "Failed to save image path", err)
		return
	}
	if _, err := uow.SaveChanges(reqCtx); err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to save image path", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded",
		"url":     result.Location,
	})
}
