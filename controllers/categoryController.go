package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wingtip/wingtip-api/initializers"
	"github.com/wingtip/wingtip-api/models"
	"github.com/wingtip/wingtip-api/repositories"
)

func CreateCategory(ctx *gin.Context) {
	var category models.Category
	if err := ctx.ShouldBindJSON(&category); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	if err := uow.Categories.Add(&category); err != nil {
		respondWithError(ctx, statusFromError(err), "Failed to create category", err)
		return
	}
	if _, err := uow.SaveChanges(ctx.Request.Context()); err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create category", err)
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

func GetCategories(ctx *gin.Context) {
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()
	reqCtx := ctx.Request.Context()

	// ?nonEmpty=true narrows the listing to categories that actually
	// hold products, for storefront menus.
	if ctx.Query("nonEmpty") == "true" {
		categories, err := uow.Categories.GetCategoriesWithProducts(reqCtx)
		if err != nil {
			respondWithError(ctx, statusFromError(err), "Unable to fetch categories", err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"categories": categories})
		return
	}

	categories, err := uow.Categories.GetAll(reqCtx)
	if err != nil {
		respondWithError(ctx, statusFromError(err), "Unable to fetch categories", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

func GetCategoryByName(ctx *gin.Context) {
	uow := repositories.NewUnitOfWork(initializers.DB)
	defer uow.Close()

	category, err := uow.Categories.GetCategoryByName(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		respondWithError(ctx, statusFromError(err), "Unable to fetch category", err)
		return
	}
	if category == nil {
		respondWithError(ctx, http.StatusNotFound, "Category not found", nil)
		return
	}
	ctx.JSON(http.StatusOK, category)
}
