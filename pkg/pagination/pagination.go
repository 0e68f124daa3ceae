package pagination

import (
	"sort"
	"strings"
)

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows any page can request.
	MaxPageSize = 100
)

// Params holds offset pagination inputs from controllers or services.
// Sorting is by a caller-designated field name; filters live with the
// domain that owns them.
type Params struct {
	Page           int
	PageSize       int
	SearchTerm     string
	SortBy         string
	SortDescending bool
}

// Normalize clamps the page to 1 and bounds the page size.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page window.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Envelope is the wire shape for every paginated list.
type Envelope[T any] struct {
	Data            []T   `json:"data"`
	TotalCount      int64 `json:"totalCount"`
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

// NewEnvelope derives the page counters from the total and params. Data is
// never nil so the JSON field always encodes as an array.
func NewEnvelope[T any](data []T, total int64, params Params) Envelope[T] {
	params = params.Normalize()
	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	if data == nil {
		data = []T{}
	}
	return Envelope[T]{
		Data:            data,
		TotalCount:      total,
		PageNumber:      params.Page,
		PageSize:        params.PageSize,
		TotalPages:      totalPages,
		HasPreviousPage: params.Page > 1,
		HasNextPage:     params.Page < totalPages,
	}
}

// Predicate is one filter clause; Apply takes their conjunction.
type Predicate[T any] func(T) bool

// Apply runs the in-memory mode of the engine: filter, stable sort, then
// slice the page window. The less function must already account for sort
// direction; a nil less keeps input order. Out-of-range pages yield an
// empty page with correct counters, never an error.
func Apply[T any](records []T, params Params, less func(a, b T) bool, predicates ...Predicate[T]) Envelope[T] {
	params = params.Normalize()

	filtered := make([]T, 0, len(records))
	for _, record := range records {
		keep := true
		for _, predicate := range predicates {
			if predicate != nil && !predicate(record) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, record)
		}
	}

	if less != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			return less(filtered[i], filtered[j])
		})
	}

	start := (params.Page - 1) * params.PageSize
	end := start + params.PageSize
	var page []T
	switch {
	case start >= len(filtered):
		page = []T{}
	case end > len(filtered):
		page = filtered[start:]
	default:
		page = filtered[start:end]
	}

	return NewEnvelope(page, int64(len(filtered)), params)
}

// MatchText reports whether the search term is a case-insensitive
// substring of any of the designated fields. An empty term matches
// everything.
func MatchText(term string, fields ...string) bool {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
