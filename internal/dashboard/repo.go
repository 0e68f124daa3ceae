package dashboard

import (
	"context"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository runs the aggregate queries behind the admin dashboard.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a dashboard repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StatusCount pairs an order status with how many orders carry it.
type StatusCount struct {
	Status enums.OrderStatus
	Count  int64
}

// DailyRevenue is one day's revenue aggregate.
type DailyRevenue struct {
	Day        time.Time
	Cents      int64
	OrderCount int64
}

// ProductSales aggregates units and revenue per product.
type ProductSales struct {
	ProductID    uuid.UUID
	Title        string
	UnitsSold    int64
	RevenueCents int64
}

func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Product{})
}

func (r *Repository) CountCategories(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Category{})
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.User{})
}

func (r *Repository) count(ctx context.Context, model any) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(model).Count(&total).Error
	return total, err
}

// CountOrders counts orders, optionally bounded to a creation window.
func (r *Repository) CountOrders(ctx context.Context, from, to *time.Time) (int64, error) {
	var total int64
	err := rangeScope(r.db.WithContext(ctx).Model(&models.Order{}), from, to).Count(&total).Error
	return total, err
}

// RevenueCents sums the totals of non-cancelled orders in the window.
// Cancelled orders never count; everything else is booked revenue.
func (r *Repository) RevenueCents(ctx context.Context, from, to *time.Time) (int64, error) {
	var cents *int64
	err := rangeScope(r.db.WithContext(ctx).Model(&models.Order{}), from, to).
		Where("status <> ?", enums.OrderStatusCancelled).
		Select("SUM(total_cents)").
		Scan(&cents).Error
	if err != nil {
		return 0, err
	}
	if cents == nil {
		return 0, nil
	}
	return *cents, nil
}

// StatusCounts groups orders in the window by status.
func (r *Repository) StatusCounts(ctx context.Context, from, to *time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := rangeScope(r.db.WithContext(ctx).Model(&models.Order{}), from, to).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// RecentOrders returns the newest orders with their items.
func (r *Repository) RecentOrders(ctx context.Context, limit int, from, to *time.Time) ([]models.Order, error) {
	var items []models.Order
	err := rangeScope(r.db.WithContext(ctx), from, to).
		Preload("Items").
		Order("created_at DESC, id").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// RevenueByDay aggregates per-day revenue and order count since the cutoff.
// Days with no orders simply do not appear; the service fills the gaps.
func (r *Repository) RevenueByDay(ctx context.Context, since time.Time) ([]DailyRevenue, error) {
	var rows []DailyRevenue
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("DATE(created_at) AS day, SUM(total_cents) AS cents, COUNT(*) AS order_count").
		Where("created_at >= ?", since).
		Where("status <> ?", enums.OrderStatusCancelled).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

// TopProducts ranks products by units sold across non-cancelled orders.
func (r *Repository) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.product_id AS product_id, order_items.title AS title, "+
			"SUM(order_items.quantity) AS units_sold, "+
			"SUM(order_items.unit_price_cents * order_items.quantity) AS revenue_cents").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", enums.OrderStatusCancelled).
		Group("order_items.product_id, order_items.title").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ProductImages resolves the first image URL for each of the given products.
func (r *Repository) ProductImages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Select("id, image_urls").
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		if len(p.ImageURLs) > 0 {
			out[p.ID] = p.ImageURLs[0]
		}
	}
	return out, nil
}

func rangeScope(query *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}
	return query
}
