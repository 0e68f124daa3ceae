package controllers

import (
	"net/http"

	"github.com/ezzshop/ezzshop-backend/api/responses"
	trackingsvc "github.com/ezzshop/ezzshop-backend/internal/tracking"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

// TrackShipment resolves a parcel's route and current position.
func TrackShipment(tracking trackingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		shipment, err := tracking.TrackShipment(r.Context(), query.Get("number"), query.Get("carrier"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipment)
	}
}
