package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is invalid, empty, or not in
// the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"code":       true,
	"name":       true,
	"price":      true,
	"stock":      true,
	"category":   true,
	"created_at": true,
	"updated_at": true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":             true,
	"number":         true,
	"payment_method": true,
	"total":          true,
	"status":         true,
	"created_at":     true,
	"updated_at":     true,
}

// TillSortFields contains allowed sort fields for cash registers
var TillSortFields = map[string]bool{
	"id":             true,
	"opened_at":      true,
	"closed_at":      true,
	"opening_amount": true,
	"created_at":     true,
	"updated_at":     true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"email":         true,
	"name":          true,
	"role":          true,
	"created_at":    true,
	"updated_at":    true,
	"last_login_at": true,
}
