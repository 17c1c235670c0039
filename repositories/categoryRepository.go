package repositories

import (
	"context"
	"strings"

	"github.com/wingtip/wingtip-api/models"
)

// CategoryRepository extends the generic store with name lookup and
// non-empty-category listing.
type CategoryRepository struct {
	*Repository[models.Category]
}

func NewCategoryRepository(session *Session) *CategoryRepository {
	return &CategoryRepository{Repository: NewRepository[models.Category](session)}
}

// GetAll lists categories with their products included.
func (r *CategoryRepository) GetAll(ctx context.Context, opts ...QueryOption) ([]models.Category, error) {
	opts = append([]QueryOption{WithRelated("Products")}, opts...)
	return r.Repository.GetAll(ctx, opts...)
}

// GetCategoryByName returns the category with the exact name, or nil
// when absent or the name is blank.
func (r *CategoryRepository) GetCategoryByName(ctx context.Context, categoryName string) (*models.Category, error) {
	if strings.TrimSpace(categoryName) == "" {
		return nil, nil
	}
	return r.SingleOrDefault(ctx, "category_name = ?", categoryName)
}

// GetCategoriesWithProducts lists only the categories holding at
// least one product.
func (r *CategoryRepository) GetCategoriesWithProducts(ctx context.Context) ([]models.Category, error) {
	tx, err := r.reader(ctx, WithRelated("Products"))
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	err = tx.Where("EXISTS (SELECT 1 FROM products WHERE products.category_id = categories.category_id)").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
