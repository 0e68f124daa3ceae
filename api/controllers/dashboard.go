package controllers

import (
	"net/http"
	"time"

	"github.com/ezzshop/ezzshop-backend/api/responses"
	"github.com/ezzshop/ezzshop-backend/api/validators"
	dashboardsvc "github.com/ezzshop/ezzshop-backend/internal/dashboard"
	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

// DashboardStatistics returns the all-time back-office headline numbers.
func DashboardStatistics(dashboard dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := dashboard.Statistics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

type dateRangeRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// DashboardStatisticsForRange scopes the headline numbers to a date window.
func DashboardStatisticsForRange(dashboard dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload dateRangeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, err := time.Parse("2006-01-02", payload.StartDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "startDate must be YYYY-MM-DD"))
			return
		}
		end, err := time.Parse("2006-01-02", payload.EndDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "endDate must be YYYY-MM-DD"))
			return
		}

		stats, err := dashboard.StatisticsForRange(r.Context(), dashboardsvc.DateRange{
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// DashboardRevenueChart returns daily revenue points for the chart.
func DashboardRevenueChart(dashboard dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		points, err := dashboard.RevenueChart(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}

// DashboardOrderStatusChart returns order counts per status with colors.
func DashboardOrderStatusChart(dashboard dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slices, err := dashboard.OrderStatusChart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slices)
	}
}

// DashboardTopProducts returns the best sellers by units sold.
func DashboardTopProducts(dashboard dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := validators.ParseQueryInt(r, "count", 5, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		top, err := dashboard.TopProducts(r.Context(), count)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, top)
	}
}
