package dto

import "net/http"

// Transport-level error codes. Domain errors carry their own codes and
// are mapped to HTTP statuses through ErrorCodeHTTPStatus below.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Transport
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"FORBIDDEN_ROLE":      http.StatusForbidden,

	// Conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"USERNAME_TAKEN":       http.StatusConflict,
	"CODE_TAKEN":           http.StatusConflict,
	"ALREADY_ISSUED":       http.StatusConflict,
	"ALREADY_SPLIT":        http.StatusConflict,
	"DUPLICATE_REQUEST":    http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rules -> 422 Unprocessable Entity
	"INVALID_STATE":              http.StatusUnprocessableEntity,
	"STAGE_ORDER":                http.StatusUnprocessableEntity,
	"STAGE_COMPLETED":            http.StatusUnprocessableEntity,
	"HAS_STOCK":                  http.StatusUnprocessableEntity,
	"INSUFFICIENT_CAPACITY":      http.StatusUnprocessableEntity,
	"LOAN_LIMIT_EXCEEDED":        http.StatusUnprocessableEntity,
	"OVERPAYMENT":                http.StatusUnprocessableEntity,
	"RECEIPT_NOT_ACTIVE":         http.StatusUnprocessableEntity,
	"RECEIPT_COLLATERALIZED":     http.StatusUnprocessableEntity,
	"RECEIPT_WAREHOUSE_MISMATCH": http.StatusUnprocessableEntity,
	"NO_FEE_DUE":                 http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":             http.StatusUnprocessableEntity,
	"ALREADY_INACTIVE":           http.StatusUnprocessableEntity,
	"ALREADY_LOCKED":             http.StatusUnprocessableEntity,
	"NOT_LOCKED":                 http.StatusUnprocessableEntity,
	"UPLOAD_MISSING":             http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	"INVALID_INPUT":      http.StatusBadRequest,
	"UNKNOWN_STAGE":      http.StatusBadRequest,
	"INVALID_USERNAME":   http.StatusBadRequest,
	"INVALID_PASSWORD":   http.StatusBadRequest,
	"WEAK_PASSWORD":      http.StatusBadRequest,
	"INVALID_ROLE":       http.StatusBadRequest,
	"INVALID_EMAIL":      http.StatusBadRequest,
	"INVALID_CODE":       http.StatusBadRequest,
	"INVALID_NAME":       http.StatusBadRequest,
	"INVALID_TYPE":       http.StatusBadRequest,
	"INVALID_CHANNEL":    http.StatusBadRequest,
	"INVALID_CAPACITY":   http.StatusBadRequest,
	"INVALID_FEE_RATE":   http.StatusBadRequest,
	"INVALID_LOCATION":   http.StatusBadRequest,
	"INVALID_ADDRESS":    http.StatusBadRequest,
	"INVALID_CATEGORY":   http.StatusBadRequest,
	"INVALID_QUANTITY":   http.StatusBadRequest,
	"INVALID_WEIGHT":     http.StatusBadRequest,
	"INVALID_GRADE":      http.StatusBadRequest,
	"INVALID_QUALITY":    http.StatusBadRequest,
	"INVALID_PRICE":      http.StatusBadRequest,
	"INVALID_VALUATION":  http.StatusBadRequest,
	"INVALID_SACK_COUNT": http.StatusBadRequest,
	"INVALID_TRANSFER":   http.StatusBadRequest,
	"INVALID_PRINCIPAL":  http.StatusBadRequest,
	"INVALID_RATE":       http.StatusBadRequest,
	"INVALID_TERM":       http.StatusBadRequest,
	"INVALID_AMOUNT":     http.StatusBadRequest,
	"INVALID_METHOD":     http.StatusBadRequest,
	"INVALID_KIND":       http.StatusBadRequest,
	"INVALID_REFERENCE":  http.StatusBadRequest,
	"INVALID_ATTACHMENT": http.StatusBadRequest,

	// Infrastructure
	"STORAGE_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unmapped codes fall back to 422.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
