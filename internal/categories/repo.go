package categories

import (
	"context"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryWithCount pairs a category row with its derived product count.
type CategoryWithCount struct {
	models.Category
	ProductCount int64
}

// Repository wires together category persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListWithCounts returns all categories with their product counts.
func (r *Repository) ListWithCounts(ctx context.Context) ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	if err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id").
		Order("categories.name, categories.id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one category with its product count.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*CategoryWithCount, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	return &CategoryWithCount{Category: category, ProductCount: count}, nil
}

// Create inserts a new category row.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Update saves an existing category row.
func (r *Repository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category row. Fails when products still reference it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasProducts reports whether any product references the category.
func (r *Repository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
