package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeUnauthorized is used when the API key is missing or wrong
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Quote request validation codes map to 400 so the storefront can tell a bad
// request apart from a degraded quote (which is never an error response).
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// Quote request validation
	"INVALID_CEP":        http.StatusBadRequest,
	"EMPTY_CART":         http.StatusBadRequest,
	"INVALID_QUANTITY":   http.StatusBadRequest,
	"INVALID_PRODUCT_ID": http.StatusBadRequest,
	"PRODUCT_NOT_FOUND":  http.StatusNotFound,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_CODE":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// State transitions
	"INVALID_STATE":    http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":   http.StatusUnprocessableEntity,
	"ALREADY_INACTIVE": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unmapped INVALID_* codes are admin input problems and map to 400;
// anything else unknown is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
