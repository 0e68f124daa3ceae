package controllers

import (
	"net/http"
	"strings"

	"github.com/ezzshop/ezzshop-backend/api/middleware"
	"github.com/ezzshop/ezzshop-backend/api/responses"
	"github.com/ezzshop/ezzshop-backend/api/validators"
	authsvc "github.com/ezzshop/ezzshop-backend/internal/auth"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a customer account and returns its verification token.
func Register(auth authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := auth.Register(r.Context(), authsvc.RegisterInput{
			Name:     payload.Name,
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and mints an access token.
func Login(auth authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := auth.Login(r.Context(), authsvc.LoginInput{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// Logout revokes the caller's session and destroys their cart.
func Logout(auth authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jti := middleware.JTIFromContext(r.Context())
		if jti == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			sessionID = middleware.UserIDFromContext(r.Context())
		}

		if err := auth.Logout(r.Context(), jti, sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"loggedOut": true})
	}
}

// ConfirmEmail redeems a verification token from the query string.
func ConfirmEmail(auth authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "token is required"))
			return
		}

		user, err := auth.ConfirmEmail(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

type sendTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendVerificationToken reissues an email verification token.
func SendVerificationToken(auth authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sendTokenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := auth.ResendVerification(r.Context(), payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"verificationToken": token})
	}
}

// SendResetToken issues a password reset token. The response shape is the
// same whether or not the address exists, so accounts cannot be enumerated.
func SendResetToken(auth authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sendTokenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := auth.RequestPasswordReset(r.Context(), payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"resetToken": token})
	}
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// ResetPassword redeems a reset token for a new password.
func ResetPassword(auth authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resetPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := auth.ResetPassword(r.Context(), authsvc.ResetPasswordInput{
			Token:       payload.Token,
			NewPassword: payload.NewPassword,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"reset": true})
	}
}
