package persistence

import (
	"github.com/elotech/pdv-backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies pagination and ordering from the filter. The sort
// field is checked against the whitelist so user input never reaches the
// ORDER BY clause raw; anything not whitelisted falls back to defaultField.
func applyFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	return query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
}
