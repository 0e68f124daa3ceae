package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description;not null;default:''"`
	PriceCents  int64          `gorm:"column:price_cents;not null"`
	Stock       int            `gorm:"column:stock;not null;default:0"`
	CategoryID  uuid.UUID      `gorm:"column:category_id;type:uuid;not null;index"`
	Category    *Category      `gorm:"foreignKey:CategoryID"`
	ImageURLs   pq.StringArray `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	IsFeatured  bool           `gorm:"column:is_featured;not null;default:false"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// PrimaryImageURL returns the first image or empty when none uploaded.
func (p Product) PrimaryImageURL() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}
