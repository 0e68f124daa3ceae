package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/ezzshop/ezzshop-backend/pkg/errors"
	"github.com/ezzshop/ezzshop-backend/pkg/pagination"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryInt64 reads an optional int64 query parameter, nil when absent.
func ParseQueryInt64(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseQueryDate reads an optional YYYY-MM-DD query parameter, nil when absent.
func ParseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date (YYYY-MM-DD)").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// filterKeys are the query parameters that narrow a paginated listing. A
// request that carries one of these without an explicit page starts over at
// page 1, so stale page numbers from a previous filter never produce an
// empty window.
var filterKeys = []string{"search", "category", "status", "paymentStatus", "paymentMethod", "minPrice", "maxPrice", "minTotal", "maxTotal", "from", "to"}

// ParsePagination reads page, pageSize, search, sortBy and sortDir.
func ParsePagination(r *http.Request) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 1, 1, 1000000)
	if err != nil {
		return pagination.Params{}, err
	}
	pageSize, err := ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return pagination.Params{}, err
	}

	query := r.URL.Query()
	if query.Get("page") == "" {
		for _, key := range filterKeys {
			if query.Get(key) != "" {
				page = 1
				break
			}
		}
	}

	params := pagination.Params{
		Page:           page,
		PageSize:       pageSize,
		SearchTerm:     strings.TrimSpace(query.Get("search")),
		SortBy:         strings.TrimSpace(query.Get("sortBy")),
		SortDescending: strings.EqualFold(query.Get("sortDir"), "desc"),
	}
	return params.Normalize(), nil
}
