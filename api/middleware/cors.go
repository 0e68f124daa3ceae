package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware applying the allowed origin policy from config.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:4200"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Session-Id", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
