package models

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserToken is a single-use token for email verification or password reset.
type UserToken struct {
	ID        uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	User      *User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Purpose   enums.TokenPurpose `gorm:"column:purpose;type:text;not null"`
	Token     string             `gorm:"column:token;not null;uniqueIndex"`
	ExpiresAt time.Time          `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time         `gorm:"column:used_at"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// IsUsable reports whether the token can still be redeemed at now.
func (t UserToken) IsUsable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
