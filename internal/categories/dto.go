package categories

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CategoryDTO is the wire shape for category reads; ProductCount is derived
// at read time, never stored.
type CategoryDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	ProductCount int64     `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateInput is the admin payload for a new category.
type CreateInput struct {
	Name        string
	Description string
	ImageURL    string
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	ImageURL    *string
}

func toDTO(category models.Category, productCount int64) CategoryDTO {
	return CategoryDTO{
		ID:           category.ID,
		Name:         category.Name,
		Description:  category.Description,
		ImageURL:     category.ImageURL,
		ProductCount: productCount,
		CreatedAt:    category.CreatedAt,
	}
}
