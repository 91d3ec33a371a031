package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes produced by the domain and application layers are listed here;
// anything else falls back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// input and value validation -> 400
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_CODE":           http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_STOCK":          http.StatusBadRequest,
	"INVALID_MIN_STOCK":      http.StatusBadRequest,
	"INVALID_EMAIL":          http.StatusBadRequest,
	"INVALID_ROLE":           http.StatusBadRequest,
	"WEAK_PASSWORD":          http.StatusBadRequest,
	"INVALID_SEARCH":         http.StatusBadRequest,
	"INVALID_PERIOD":         http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_OPENING_AMOUNT": http.StatusBadRequest,
	"INVALID_SANGRIA_AMOUNT": http.StatusBadRequest,
	"INVALID_COUNTED_AMOUNT": http.StatusBadRequest,

	// auth -> 401
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,

	"FORBIDDEN": http.StatusForbidden,

	"NOT_FOUND": http.StatusNotFound,

	// conflicts -> 409
	"ALREADY_EXISTS":    http.StatusConflict,
	"TILL_ALREADY_OPEN": http.StatusConflict,
	"NO_OPEN_TILL":      http.StatusConflict,

	// business rules -> 422
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"OUT_OF_STOCK":         http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,
	"PRODUCT_INACTIVE":     http.StatusUnprocessableEntity,
	"EMPTY_CART":           http.StatusUnprocessableEntity,
	"SANGRIA_EXCEEDS_CASH": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
