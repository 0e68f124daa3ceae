package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for browsing and filtering.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null;default:''"`
	ImageURL    string    `gorm:"column:image_url;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
