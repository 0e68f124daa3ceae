package products

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/ezzshop/ezzshop-backend/pkg/types"
	"github.com/google/uuid"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
// Empty/nil values pass vacuously.
type ListFilters struct {
	Search        string      `json:"q,omitempty"`
	CategoryIDs   []uuid.UUID `json:"category_ids,omitempty"`
	MinPriceCents *int64      `json:"min_price_cents,omitempty"`
	MaxPriceCents *int64      `json:"max_price_cents,omitempty"`
	InStock       *bool       `json:"in_stock,omitempty"`
	Featured      *bool       `json:"featured,omitempty"`
}

// ListInput captures the inputs needed to paginate/filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// CreateInput is the admin payload for a new product.
type CreateInput struct {
	Title       string
	Description string
	PriceCents  int64
	Stock       int
	CategoryID  uuid.UUID
	ImageURLs   []string
	IsFeatured  bool
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	PriceCents  *int64
	Stock       *int
	CategoryID  *uuid.UUID
	ImageURLs   []string
	IsFeatured  *bool
}

// ProductDTO is the wire shape for catalog reads.
type ProductDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"priceCents"`
	Price        string    `json:"price"`
	Stock        int       `json:"stock"`
	CategoryID   uuid.UUID `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	ImageURLs    []string  `json:"imageUrls"`
	IsFeatured   bool      `json:"isFeatured"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToDTO maps the model to its wire shape.
func ToDTO(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Price:       types.Cents(p.PriceCents).String(),
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		ImageURLs:   p.ImageURLs,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt,
	}
	if dto.ImageURLs == nil {
		dto.ImageURLs = []string{}
	}
	if p.Category != nil {
		dto.CategoryName = p.Category.Name
	}
	return dto
}

// ToDTOs maps a slice of models.
func ToDTOs(items []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ToDTO(item))
	}
	return out
}
