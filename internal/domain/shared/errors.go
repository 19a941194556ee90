package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so errors.Is works against the
// sentinels below regardless of the message
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("OPTIMISTIC_LOCK_FAILED", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Stock handling errors
var (
	ErrBinInactive = NewDomainError("BIN_INACTIVE", "Bin is not active")
	ErrBinOccupied = NewDomainError("BIN_OCCUPIED_BY_OTHER_PRODUCT", "Bin already holds a different product")

	ErrInsufficientAvailable = NewDomainError("INSUFFICIENT_AVAILABLE", "Available quantity is insufficient")
	ErrProductExpired        = NewDomainError("PRODUCT_EXPIRED", "Product use-by date has passed")
	ErrInvalidQuantity       = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive decimal")

	ErrFefoViolation      = NewDomainError("FEFO_VIOLATION", "An earlier-expiring batch must be issued first")
	ErrFefoOverrideReason = NewDomainError("FEFO_OVERRIDE_REQUIRES_REASON", "Overriding FEFO order requires a reason")

	ErrReservedQuantityViolation = NewDomainError("RESERVED_QUANTITY_VIOLATION", "Operation would drop quantity below the reserved amount")
	ErrAlreadyTerminal           = NewDomainError("ALREADY_TERMINAL", "Record is in a terminal state")

	ErrSameLocation           = NewDomainError("SAME_LOCATION", "Source and target bins are identical")
	ErrCrossWarehouseMismatch = NewDomainError("CROSS_WAREHOUSE_MISMATCH", "Bins belong to different warehouses")
)
