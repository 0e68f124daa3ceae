package chat

import (
	"context"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository runs the catalog and order queries behind chatbot answers.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a chat repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SoldProduct is the scan target for the best-sellers query.
type SoldProduct struct {
	ProductID uuid.UUID
	Title     string
	UnitsSold int64
}

// CategoryCount is the scan target for the per-category query.
type CategoryCount struct {
	CategoryID   uuid.UUID
	Name         string
	ProductCount int64
}

// revenueRow is the scan target for the revenue summary.
type revenueRow struct {
	Cents      *int64
	OrderCount int64
}

// TopSelling ranks products by units sold across non-cancelled orders.
func (r *Repository) TopSelling(ctx context.Context, limit int) ([]SoldProduct, error) {
	var rows []SoldProduct
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.product_id AS product_id, order_items.title AS title, SUM(order_items.quantity) AS units_sold").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", enums.OrderStatusCancelled).
		Group("order_items.product_id, order_items.title").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// LowestPrice returns the cheapest product still in stock.
func (r *Repository) LowestPrice(ctx context.Context) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("stock > 0").
		Order("price_cents ASC, id ASC").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// HighestStock returns the most stocked product.
func (r *Repository) HighestStock(ctx context.Context) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Order("stock DESC, id ASC").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CategoryCounts returns every category with its product count.
func (r *Repository) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.id AS category_id, categories.name AS name, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("product_count DESC, name ASC").
		Scan(&rows).Error
	return rows, err
}

// ProductCount counts the catalog.
func (r *Repository) ProductCount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error
	return total, err
}

// Revenue sums non-cancelled order totals and counts them.
func (r *Repository) Revenue(ctx context.Context) (int64, int64, error) {
	var row revenueRow
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(total_cents) AS cents, COUNT(*) AS order_count").
		Where("status <> ?", enums.OrderStatusCancelled).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	cents := int64(0)
	if row.Cents != nil {
		cents = *row.Cents
	}
	return cents, row.OrderCount, nil
}
