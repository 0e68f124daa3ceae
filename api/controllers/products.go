package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ezzshop/ezzshop-backend/api/responses"
	"github.com/ezzshop/ezzshop-backend/api/validators"
	productsvc "github.com/ezzshop/ezzshop-backend/internal/products"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

// ListProducts serves the storefront catalog. Without query parameters it
// returns the full list; any pagination or filter parameter switches to the
// paginated envelope.
func ListProducts(products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if len(query) == 0 {
			list, err := products.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseProductFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Search = params.SearchTerm

		envelope, err := products.ListPaginated(r.Context(), productsvc.ListInput{
			Filters:    filters,
			Pagination: params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, envelope)
	}
}

func parseProductFilters(r *http.Request) (productsvc.ListFilters, error) {
	var filters productsvc.ListFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
			}
			filters.CategoryIDs = append(filters.CategoryIDs, id)
		}
	}

	minPrice, err := validators.ParseQueryInt64(r, "minPrice")
	if err != nil {
		return filters, err
	}
	maxPrice, err := validators.ParseQueryInt64(r, "maxPrice")
	if err != nil {
		return filters, err
	}
	filters.MinPriceCents = minPrice
	filters.MaxPriceCents = maxPrice

	if raw := r.URL.Query().Get("inStock"); raw != "" {
		inStock := strings.EqualFold(raw, "true")
		filters.InStock = &inStock
	}
	if raw := r.URL.Query().Get("featured"); raw != "" {
		featured := strings.EqualFold(raw, "true")
		filters.Featured = &featured
	}
	return filters, nil
}

// GetProduct returns one catalog entry by id.
func GetProduct(products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := products.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"priceCents" validate:"min=0"`
	Stock       int      `json:"stock" validate:"min=0"`
	CategoryID  string   `json:"categoryId" validate:"required,uuid"`
	ImageURLs   []string `json:"imageUrls"`
	IsFeatured  bool     `json:"isFeatured"`
}

// CreateProduct handles admin product creation.
func CreateProduct(products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := uuid.Parse(payload.CategoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}

		product, err := products.Create(r.Context(), productsvc.CreateInput{
			Title:       payload.Title,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Stock:       payload.Stock,
			CategoryID:  categoryID,
			ImageURLs:   payload.ImageURLs,
			IsFeatured:  payload.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	PriceCents  *int64   `json:"priceCents,omitempty" validate:"omitempty,min=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	CategoryID  *string  `json:"categoryId,omitempty" validate:"omitempty,uuid"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
	IsFeatured  *bool    `json:"isFeatured,omitempty"`
}

// UpdateProduct applies a partial admin update.
func UpdateProduct(products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateInput{
			Title:       payload.Title,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			Stock:       payload.Stock,
			ImageURLs:   payload.ImageURLs,
			IsFeatured:  payload.IsFeatured,
		}
		if payload.CategoryID != nil {
			categoryID, err := uuid.Parse(*payload.CategoryID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
				return
			}
			input.CategoryID = &categoryID
		}

		product, err := products.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a catalog entry.
func DeleteProduct(products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := products.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
