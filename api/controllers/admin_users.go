package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ezzshop/ezzshop-backend/api/responses"
	"github.com/ezzshop/ezzshop-backend/api/validators"
	usersvc "github.com/ezzshop/ezzshop-backend/internal/users"
	"github.com/ezzshop/ezzshop-backend/pkg/enums"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

// AdminListUsers serves the back-office user table.
func AdminListUsers(users usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters usersvc.ListFilters
		filters.Search = params.SearchTerm

		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseUserRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter"))
				return
			}
			filters.Role = &role
		}
		if raw := r.URL.Query().Get("emailVerified"); raw != "" {
			verified := strings.EqualFold(raw, "true")
			filters.EmailVerified = &verified
		}

		envelope, err := users.ListPaginated(r.Context(), usersvc.ListInput{
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

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin customer"`
}

// AdminCreateUser creates a staff or customer account directly.
func AdminCreateUser(users usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := users.Create(r.Context(), usersvc.CreateInput{
			Name:     payload.Name,
			Email:    payload.Email,
			Password: payload.Password,
			Role:     enums.UserRole(payload.Role),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

type updateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin customer"`
}

// AdminUpdateUserRole changes an account's access role.
func AdminUpdateUserRole(users usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		var payload updateUserRoleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := users.UpdateRole(r.Context(), id, enums.UserRole(payload.Role))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AdminDeleteUser removes an account.
func AdminDeleteUser(users usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		if err := users.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
