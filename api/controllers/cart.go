package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ezzshop/ezzshop-backend/api/middleware"
	"github.com/ezzshop/ezzshop-backend/api/responses"
	"github.com/ezzshop/ezzshop-backend/api/validators"
	cartsvc "github.com/ezzshop/ezzshop-backend/internal/cart"
	productsvc "github.com/ezzshop/ezzshop-backend/internal/products"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
	"github.com/ezzshop/ezzshop-backend/pkg/types"
)

type cartResponse struct {
	Items           []cartsvc.Item `json:"items"`
	TotalItems      int            `json:"totalItems"`
	TotalPriceCents types.Cents    `json:"totalPriceCents"`
	TotalPrice      string         `json:"totalPrice"`
}

func newCartResponse(items []cartsvc.Item, totals cartsvc.Totals) cartResponse {
	return cartResponse{
		Items:           items,
		TotalItems:      totals.TotalItems,
		TotalPriceCents: totals.TotalPriceCents,
		TotalPrice:      totals.TotalPriceCents.String(),
	}
}

func writeCart(w http.ResponseWriter, r *http.Request, carts cartsvc.Service, logg *logger.Logger, items []cartsvc.Item) {
	totals, err := carts.Totals(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, newCartResponse(items, totals))
}

// GetCart returns the session's cart with derived totals.
func GetCart(carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		items, err := carts.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, r, carts, logg, items)
	}
}

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// AddCartItem snapshots the product into the cart at its current price.
func AddCartItem(carts cartsvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := products.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := cartsvc.Item{
			ProductID:  product.ID,
			Title:      product.Title,
			PriceCents: types.Cents(product.PriceCents),
			Stock:      product.Stock,
			Quantity:   payload.Quantity,
		}
		if len(product.ImageURLs) > 0 {
			item.ImageURL = product.ImageURLs[0]
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		items, err := carts.AddItem(r.Context(), sessionID, item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, r, carts, logg, items)
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// UpdateCartItem sets a line's quantity; zero removes the line.
func UpdateCartItem(carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		items, err := carts.UpdateQuantity(r.Context(), sessionID, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, r, carts, logg, items)
	}
}

// RemoveCartItem drops one line from the cart.
func RemoveCartItem(carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		items, err := carts.RemoveItem(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, r, carts, logg, items)
	}
}

// ClearCart empties the session's cart.
func ClearCart(carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := carts.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse([]cartsvc.Item{}, cartsvc.Totals{}))
	}
}
