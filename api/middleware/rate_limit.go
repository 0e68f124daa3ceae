package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ezzshop/ezzshop-backend/api/responses"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit throttles a surface per client IP over a fixed window. A limiter
// outage fails open so Redis downtime never locks out logins.
func RateLimit(name string, limiter rateLimiter, limit int64, window time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 || window <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			scope := name + ":" + clientIP(r)
			allowed, _, err := limiter.FixedWindowAllow(r.Context(), scope, limit, window)
			if err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "rate limiter unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
