package dto

import "net/http"

// Transport-level error codes. Domain error codes pass through unchanged;
// these cover failures that happen before a request reaches the domain.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED_REQUEST"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Unknown codes
// map to 500 so a new domain code fails loudly instead of leaking as 200.
var errorCodeHTTPStatus = map[string]int{
	// Transport errors
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeInternal:     http.StatusInternalServerError,

	// Input validation -> 400 Bad Request
	"VALIDATION": http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	// Optimistic locking -> 409 Conflict, the caller should re-read and retry
	"CONCURRENT_MODIFICATION": http.StatusConflict,

	// Permission denial on an authenticated request -> 403 Forbidden
	"UNAUTHORIZED": http.StatusForbidden,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE":            http.StatusUnprocessableEntity,
	"INVALID_STATE_TRANSITION": http.StatusUnprocessableEntity,
	"QUANTITY_CONSERVATION":    http.StatusUnprocessableEntity,

	// Transient storage failures -> 503, safe to retry
	"TRANSIENT": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
