package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// Session resolves the cart session for a request. Authenticated users are
// keyed by their user id so the cart follows them across devices; anonymous
// visitors get a generated id echoed back in the response header for the
// client to replay.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := UserIDFromContext(r.Context())
			if sessionID == "" {
				sessionID = r.Header.Get(sessionIDHeader)
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
