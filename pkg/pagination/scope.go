package pagination

import "gorm.io/gorm"

// Scope returns a gorm scope applying the normalized page window. Callers
// own the ORDER BY; repositories add an id tiebreak so pages are stable.
func Scope(params Params) func(*gorm.DB) *gorm.DB {
	normalized := params.Normalize()
	return func(query *gorm.DB) *gorm.DB {
		return query.Offset(normalized.Offset()).Limit(normalized.PageSize)
	}
}
