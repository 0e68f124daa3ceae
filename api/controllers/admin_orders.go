package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ezzshop/ezzshop-backend/api/responses"
	"github.com/ezzshop/ezzshop-backend/api/validators"
	ordersvc "github.com/ezzshop/ezzshop-backend/internal/orders"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

// AdminListOrders serves the back-office order table with filters.
func AdminListOrders(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Search = params.SearchTerm

		envelope, err := orders.ListPaginated(r.Context(), ordersvc.ListInput{
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

func parseOrderFilters(r *http.Request) (ordersvc.ListFilters, error) {
	var filters ordersvc.ListFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("paymentStatus")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter")
		}
		filters.PaymentStatus = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("paymentMethod")); raw != "" {
		method, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method filter")
		}
		filters.PaymentMethod = &method
	}

	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return filters, err
	}
	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return filters, err
	}
	filters.CreatedFrom = from
	filters.CreatedTo = to

	minTotal, err := validators.ParseQueryInt64(r, "minTotal")
	if err != nil {
		return filters, err
	}
	maxTotal, err := validators.ParseQueryInt64(r, "maxTotal")
	if err != nil {
		return filters, err
	}
	filters.MinTotalCents = minTotal
	filters.MaxTotalCents = maxTotal

	return filters, nil
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateOrderStatus advances an order through the fulfillment pipeline.
func AdminUpdateOrderStatus(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.UpdateStatus(r.Context(), id, enums.OrderStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminRefundOrder marks an order refunded and cancels it if still open.
func AdminRefundOrder(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.Refund(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminListReconciliations lists captured payments still missing an order.
func AdminListReconciliations(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := orders.ListReconciliations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminResolveReconciliation marks a reconciliation row handled.
func AdminResolveReconciliation(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reconciliation id"))
			return
		}

		if err := orders.ResolveReconciliation(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"resolved": true})
	}
}
