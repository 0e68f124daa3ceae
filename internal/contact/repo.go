package contact

import (
	"context"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists contact form submissions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contact repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a submission.
func (r *Repository) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// ListPaginated returns submissions, newest first.
func (r *Repository) ListPaginated(ctx context.Context, params pagination.Params) ([]models.ContactMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactMessage{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.ContactMessage
	if err := query.
		Order("created_at DESC, id ASC").
		Scopes(pagination.Scope(params)).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Delete removes a submission.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactMessage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
