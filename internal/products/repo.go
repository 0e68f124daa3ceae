package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sortColumns whitelists the sortable fields for the browse endpoint.
var sortColumns = map[string]string{
	"title":      "title",
	"price":      "price_cents",
	"stock":      "stock",
	"created_at": "created_at",
}

// Repository wires together product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product with its category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns the whole catalog ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC, id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListFeatured returns featured products only.
func (r *Repository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_featured = ?", true).
		Order("created_at DESC, id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListPaginated is the query-delegated mode of the filter engine: the same
// predicate conjunction and tie-break semantics as the in-memory mode,
// translated to SQL.
func (r *Repository) ListPaginated(ctx context.Context, input ListInput) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	query = applyFilters(query, input.Filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	if err := query.
		Preload("Category").
		Order(orderClause(input.Pagination)).
		Scopes(pagination.Scope(input.Pagination)).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if term := strings.TrimSpace(filters.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if len(filters.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filters.CategoryIDs)
	}
	if filters.MinPriceCents != nil {
		query = query.Where("price_cents >= ?", *filters.MinPriceCents)
	}
	if filters.MaxPriceCents != nil {
		query = query.Where("price_cents <= ?", *filters.MaxPriceCents)
	}
	if filters.InStock != nil && *filters.InStock {
		query = query.Where("stock > 0")
	}
	if filters.Featured != nil {
		query = query.Where("is_featured = ?", *filters.Featured)
	}
	return query
}

// orderClause maps the requested sort to a whitelisted column with an id
// tiebreak so pages stay stable across requests.
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

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ErrInsufficientStock signals a decrement that would take stock negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// DecrementStockTx reduces stock inside the caller's transaction, guarding
// against oversell with a conditional update.
func DecrementStockTx(tx *gorm.DB, productID uuid.UUID, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
	}
	return nil
}
