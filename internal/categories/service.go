package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ezzshop/ezzshop-backend/pkg/db"
	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes category operations.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, input CreateInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	ListWithCounts(ctx context.Context) ([]CategoryWithCount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*CategoryWithCount, error)
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo repository
}

// NewService builds the category service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row.Category, row.ProductCount))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	dto := toDTO(row.Category, row.ProductCount)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	created, err := s.repo.Create(ctx, &models.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		ImageURL:    strings.TrimSpace(input.ImageURL),
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
	}
	dto := toDTO(*created, 0)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}

	category := row.Category
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}
	if input.ImageURL != nil {
		category.ImageURL = strings.TrimSpace(*input.ImageURL)
	}

	updated, err := s.repo.Update(ctx, &category)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating category")
	}
	dto := toDTO(*updated, row.ProductCount)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	inUse, err := s.repo.HasProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking category usage")
	}
	if inUse {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting category")
	}
	return nil
}
