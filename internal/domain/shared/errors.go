package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so that
// NewDomainError("NOT_FOUND", "Client not found") matches ErrNotFound.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by every bounded context
const (
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeInvalidState          = "INVALID_STATE"
	CodeInsufficientStock     = "INSUFFICIENT_STOCK"
	CodePaymentExceedsBalance = "PAYMENT_EXCEEDS_BALANCE"
	CodeQuotaExceeded         = "OCR_QUOTA_EXCEEDED"
	CodeLockNotObtained       = "LOCK_NOT_OBTAINED"
)

// Common domain errors
var (
	ErrNotFound              = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists         = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput          = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict   = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized          = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden             = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState          = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock     = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrPaymentExceedsBalance = NewDomainError(CodePaymentExceedsBalance, "Payment exceeds the remaining balance")
	ErrQuotaExceeded         = NewDomainError(CodeQuotaExceeded, "Monthly OCR quota exhausted")
	ErrLockNotObtained       = NewDomainError(CodeLockNotObtained, "Another operation is in progress, retry later")
)
