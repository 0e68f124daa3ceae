package users

import (
	"time"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
)

// UserDTO is the wire shape for user reads. The password hash never leaves
// the package.
type UserDTO struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Role          enums.UserRole `json:"role"`
	EmailVerified bool           `json:"emailVerified"`
	LastLoginAt   *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// CreateInput is the admin user-creation payload.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     enums.UserRole
}

// ListFilters describes the admin user search knobs.
type ListFilters struct {
	Role          *enums.UserRole
	EmailVerified *bool
	Search        string
}

// ListInput pairs admin filters with pagination.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// FromModel maps the model to its wire shape.
func FromModel(user *models.User) UserDTO {
	return UserDTO{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt,
	}
}

// FromModels maps a slice of models.
func FromModels(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, FromModel(&users[i]))
	}
	return out
}
