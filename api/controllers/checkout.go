package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ezzshop/ezzshop-backend/api/middleware"
	"github.com/ezzshop/ezzshop-backend/api/responses"
	"github.com/ezzshop/ezzshop-backend/api/validators"
	checkoutsvc "github.com/ezzshop/ezzshop-backend/internal/checkout"
	"github.com/ezzshop/ezzshop-backend/internal/orders"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

type checkoutRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=whatsapp stripe paypal"`

	StripePaymentMethodID string `json:"stripePaymentMethodId,omitempty"`
	ReturnURL             string `json:"returnUrl,omitempty"`
	CancelURL             string `json:"cancelUrl,omitempty"`
}

// Checkout submits the session's cart through the chosen payment path.
func Checkout(checkout checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkoutsvc.Input{
			Customer: orders.CustomerDetails{
				Name:       payload.Name,
				Email:      payload.Email,
				Phone:      payload.Phone,
				Address:    payload.Address,
				City:       payload.City,
				PostalCode: payload.PostalCode,
			},
			PaymentMethod:         enums.PaymentMethod(payload.PaymentMethod),
			StripePaymentMethodID: payload.StripePaymentMethodID,
			ReturnURL:             payload.ReturnURL,
			CancelURL:             payload.CancelURL,
		}

		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			userID, err := uuid.Parse(raw)
			if err == nil {
				input.UserID = &userID
			}
		}

		result, err := checkout.Checkout(r.Context(), middleware.SessionIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type capturePayPalRequest struct {
	Token string `json:"token" validate:"required"`
}

// CapturePayPal completes the PayPal return leg by capturing the approved
// order and materializing the parked draft.
func CapturePayPal(checkout checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload capturePayPalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if strings.TrimSpace(payload.Token) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "token is required"))
			return
		}

		order, err := checkout.CapturePayPal(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
