package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ezzshop/ezzshop-backend/pkg/db/models"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context) ([]ProductDTO, error)
	ListPaginated(ctx context.Context, input ListInput) (pagination.Envelope[ProductDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListPaginated(ctx context.Context, input ListInput) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService builds the catalog service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return ToDTOs(items), nil
}

func (s *service) ListPaginated(ctx context.Context, input ListInput) (pagination.Envelope[ProductDTO], error) {
	input.Pagination = input.Pagination.Normalize()
	items, total, err := s.repo.ListPaginated(ctx, input)
	if err != nil {
		return pagination.Envelope[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return pagination.NewEnvelope(ToDTOs(items), total, input.Pagination), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	dto := ToDTO(*product)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		ImageURLs:   input.ImageURLs,
		IsFeatured:  input.IsFeatured,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	dto := ToDTO(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
		}
		product.Stock = *input.Stock
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.ImageURLs != nil {
		product.ImageURLs = input.ImageURLs
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	dto := ToDTO(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	if input.CategoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	return nil
}
