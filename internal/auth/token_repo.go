package auth

import (
	"context"
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository persists single-use verification and reset tokens.
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository constructs a token repo bound to the provided GORM DB.
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create inserts a token row.
func (r *TokenRepository) Create(ctx context.Context, token *models.UserToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// FindByToken loads a token by its value and purpose, with its user.
func (r *TokenRepository) FindByToken(ctx context.Context, purpose enums.TokenPurpose, token string) (*models.UserToken, error) {
	var row models.UserToken
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("purpose = ? AND token = ?", purpose, token).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// MarkUsed stamps the token so it cannot be redeemed twice.
func (r *TokenRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UserToken{}).
		Where("id = ?", id).
		UpdateColumn("used_at", at).Error
}

// InvalidateForUser burns every outstanding token of the given purpose, so
// reissuing leaves exactly one live token per user.
func (r *TokenRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID, purpose enums.TokenPurpose, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UserToken{}).
		Where("user_id = ? AND purpose = ? AND used_at IS NULL", userID, purpose).
		UpdateColumn("used_at", at).Error
}
