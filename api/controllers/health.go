package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/ezzshop/ezzshop-backend/api/responses"
	"github.com/ezzshop/ezzshop-backend/pkg/config"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness; it never checks dependencies.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ezzshop-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and Redis; any failure makes the
// service not ready.
func HealthReady(cfg *config.Config, database, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ezzshop-Env", cfg.App.Env)

		var err error
		if database != nil {
			err = multierr.Append(err, database.Ping(r.Context()))
		}
		if cache != nil {
			err = multierr.Append(err, cache.Ping(r.Context()))
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
