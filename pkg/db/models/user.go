package models

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	Email         string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string         `gorm:"column:password_hash;not null"`
	Role          enums.UserRole `gorm:"column:role;type:text;not null;default:customer"`
	EmailVerified bool           `gorm:"column:email_verified;not null;default:false"`
	LastLoginAt   *time.Time     `gorm:"column:last_login_at"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
