package errs

import "errors"

// Sentinel errors shared across usecase layers
var (
	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session already closed")
	ErrInvalidTransition = errors.New("invalid session state transition")

	// Rate plan errors
	ErrRatePlanNotFound = errors.New("rate plan not found")

	// Discount errors
	ErrDiscountRuleNotFound = errors.New("discount rule not found")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
