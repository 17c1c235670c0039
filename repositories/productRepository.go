package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/wingtip/wingtip-api/models"
)

// ProductRepository extends the generic store with catalog lookups.
type ProductRepository struct {
	*Repository[models.Product]
}

func NewProductRepository(session *Session) *ProductRepository {
	return &ProductRepository{Repository: NewRepository[models.Product](session)}
}

// GetByID returns the product with its category loaded, or
// ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id any, opts ...QueryOption) (*models.Product, error) {
	opts = append([]QueryOption{WithRelated("Category")}, opts...)
	return r.Repository.GetByID(ctx, id, opts...)
}

// GetProductsByCategory lists the products in one category.
func (r *ProductRepository) GetProductsByCategory(ctx context.Context, categoryID int) ([]models.Product, error) {
	tx, err := r.reader(ctx, WithRelated("Category"))
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := tx.Where("category_id = ?", categoryID).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductsByName searches products whose name contains the given
// text. A blank search yields an empty slice.
func (r *ProductRepository) GetProductsByName(ctx context.Context, productName string) ([]models.Product, error) {
	if strings.TrimSpace(productName) == "" {
		return []models.Product{}, nil
	}
	tx, err := r.reader(ctx, WithRelated("Category"))
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := tx.Where("product_name LIKE ?", "%"+productName+"%").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductByName is the exact-name lookup; it fails with ErrNotFound
// when no product carries the name.
func (r *ProductRepository) GetProductByName(ctx context.Context, productName string) (*models.Product, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, productName)
	}
	product, err := r.SingleOrDefault(ctx, "product_name = ?", productName)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, productName)
	}
	return product, nil
}

// GetFeaturedProducts returns a small storefront selection.
func (r *ProductRepository) GetFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	tx, err := r.reader(ctx, WithRelated("Category"))
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := tx.Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
