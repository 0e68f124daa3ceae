package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var sortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPaginated runs the admin user search.
func (r *Repository) ListPaginated(ctx context.Context, input ListInput) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	query = applyFilters(query, input.Filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.User
	if err := query.
		Order(orderClause(input.Pagination)).
		Scopes(pagination.Scope(input.Pagination)).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.EmailVerified != nil {
		query = query.Where("email_verified = ?", *filters.EmailVerified)
	}
	if term := strings.TrimSpace(filters.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
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

// Update saves an existing user row.
func (r *Repository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// Delete removes a user row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
