package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var sortColumns = map[string]string{
	"order_number": "order_number",
	"total":        "total_cents",
	"status":       "status",
	"created_at":   "created_at",
}

// Repository wires together order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts the order with its items inside the caller's transaction.
func CreateTx(tx *gorm.DB, order *models.Order) error {
	return tx.Create(order).Error
}

// FindByID loads an order with its line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForUser returns the user's orders, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var items []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListPaginated runs the admin order search with all filters applied as a
// single SQL conjunction, id tiebreak included.
func (r *Repository) ListPaginated(ctx context.Context, input ListInput) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	query = applyFilters(query, input.Filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Order
	if err := query.
		Preload("Items").
		Order(orderClause(input.Pagination)).
		Scopes(pagination.Scope(input.Pagination)).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *filters.PaymentMethod)
	}
	if term := strings.TrimSpace(filters.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?", like, like)
	}
	if filters.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filters.CreatedFrom)
	}
	if filters.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filters.CreatedTo)
	}
	if filters.MinTotalCents != nil {
		query = query.Where("total_cents >= ?", *filters.MinTotalCents)
	}
	if filters.MaxTotalCents != nil {
		query = query.Where("total_cents <= ?", *filters.MaxTotalCents)
	}
	return query
}

func orderClause(params pagination.Params) string {
	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(params.SortBy))]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if params.SortDescending {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", column, direction)
}

// Update saves an existing order row.
func (r *Repository) Update(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateReconciliation records a captured payment with no order behind it.
// Called outside any transaction so the row survives the order failure that
// produced it.
func (r *Repository) CreateReconciliation(ctx context.Context, row *models.PaymentReconciliation) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// ListReconciliations returns reconciliation rows, unresolved first.
func (r *Repository) ListReconciliations(ctx context.Context) ([]models.PaymentReconciliation, error) {
	var rows []models.PaymentReconciliation
	if err := r.db.WithContext(ctx).
		Order("resolved ASC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ResolveReconciliation marks a row as worked off.
func (r *Repository) ResolveReconciliation(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentReconciliation{}).
		Where("id = ?", id).
		Update("resolved", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
