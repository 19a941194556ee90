package dto

import "net/http"

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "INVALID_JSON"
	// ErrCodeValidation is used for request validation failures
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeInvalidQuantity is used when a quantity is zero, negative or malformed
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the operator lacks the required role
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "OPTIMISTIC_LOCK_FAILED"
	// ErrCodeDuplicateReference is used when a movement reference was already recorded
	ErrCodeDuplicateReference = "DUPLICATE_REFERENCE"
)

// Stock handling error codes
const (
	// ErrCodeBinInactive is used when stock is placed into an inactive bin
	ErrCodeBinInactive = "BIN_INACTIVE"
	// ErrCodeBinOccupied is used when a bin already holds a different product
	ErrCodeBinOccupied = "BIN_OCCUPIED_BY_OTHER_PRODUCT"
	// ErrCodeInsufficientAvailable is used when available quantity cannot cover a request
	ErrCodeInsufficientAvailable = "INSUFFICIENT_AVAILABLE"
	// ErrCodeProductExpired is used when issuing stock past its use-by date
	ErrCodeProductExpired = "PRODUCT_EXPIRED"
	// ErrCodeFefoViolation is used when an issue skips an earlier-expiring batch
	ErrCodeFefoViolation = "FEFO_VIOLATION"
	// ErrCodeFefoOverrideReason is used when a FEFO override carries no reason
	ErrCodeFefoOverrideReason = "FEFO_OVERRIDE_REQUIRES_REASON"
	// ErrCodeReservedViolation is used when an operation would break a reservation
	ErrCodeReservedViolation = "RESERVED_QUANTITY_VIOLATION"
	// ErrCodeAlreadyTerminal is used when a record is in a terminal state
	ErrCodeAlreadyTerminal = "ALREADY_TERMINAL"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "INVALID_STATE"
)

// Transfer error codes
const (
	// ErrCodeSameLocation is used when source and target bins are identical
	ErrCodeSameLocation = "SAME_LOCATION"
	// ErrCodeCrossWarehouseMismatch is used when a bin belongs to the wrong warehouse
	ErrCodeCrossWarehouseMismatch = "CROSS_WAREHOUSE_MISMATCH"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidQuantity: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateReference:  http.StatusConflict,

	// Stock handling errors -> 422 Unprocessable Entity
	ErrCodeBinInactive:           http.StatusUnprocessableEntity,
	ErrCodeBinOccupied:           http.StatusUnprocessableEntity,
	ErrCodeInsufficientAvailable: http.StatusUnprocessableEntity,
	ErrCodeProductExpired:        http.StatusUnprocessableEntity,
	ErrCodeFefoViolation:         http.StatusUnprocessableEntity,
	ErrCodeFefoOverrideReason:    http.StatusUnprocessableEntity,
	ErrCodeReservedViolation:     http.StatusUnprocessableEntity,
	ErrCodeAlreadyTerminal:       http.StatusUnprocessableEntity,
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,

	// Transfer errors -> 422 Unprocessable Entity
	ErrCodeSameLocation:           http.StatusUnprocessableEntity,
	ErrCodeCrossWarehouseMismatch: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
