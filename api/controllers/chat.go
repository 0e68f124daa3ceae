package controllers

import (
	"net/http"

	"github.com/ezzshop/ezzshop-backend/api/middleware"
	"github.com/ezzshop/ezzshop-backend/api/responses"
	"github.com/ezzshop/ezzshop-backend/api/validators"
	chatsvc "github.com/ezzshop/ezzshop-backend/internal/chat"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

type askRequest struct {
	Question string `json:"question" validate:"required"`
}

// Ask answers a shop question and records the exchange in the session's
// conversation history.
func Ask(chat chatsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload askRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		answer, err := chat.Ask(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.Question)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, answer)
	}
}

// ChatHistory returns the session's conversation, oldest first.
func ChatHistory(chat chatsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := chat.History(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// ClearChatHistory wipes the session's conversation.
func ClearChatHistory(chat chatsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := chat.ClearHistory(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
