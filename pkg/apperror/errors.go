package apperror

import (
	"errors"
	"net/http"
)

// Kind tags an AppError with its place in the business error taxonomy
type Kind string

const (
	KindValidation           Kind = "validation_error"
	KindNotFound             Kind = "not_found"
	KindForbidden            Kind = "forbidden"
	KindUnauthorized         Kind = "unauthorized"
	KindInvalidState         Kind = "invalid_state"
	KindAlreadyIssued        Kind = "already_issued"
	KindAlreadyVoided        Kind = "already_voided"
	KindAlreadyClosed        Kind = "already_closed"
	KindSessionAlreadyOpen   Kind = "session_already_open"
	KindInsufficientStock    Kind = "insufficient_stock"
	KindProductUnavailable   Kind = "product_unavailable"
	KindConfigurationMissing Kind = "configuration_missing"
	KindDocumentTypeDisabled Kind = "document_type_disabled"
	KindConflict             Kind = "conflict"
	KindBadRequest           Kind = "bad_request"
	KindRateLimited          Kind = "rate_limited"
	KindInternal             Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches two AppErrors by kind so errors.Is works against the sentinels below
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrUnprocessable      = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "Unprocessable entity"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid token"}

	ErrInvalidState         = &AppError{Code: http.StatusBadRequest, Kind: KindInvalidState, Message: "Operation not allowed in the current state"}
	ErrAlreadyIssued        = &AppError{Code: http.StatusBadRequest, Kind: KindAlreadyIssued, Message: "Order already has a receipt"}
	ErrAlreadyVoided        = &AppError{Code: http.StatusBadRequest, Kind: KindAlreadyVoided, Message: "Receipt is already voided"}
	ErrAlreadyClosed        = &AppError{Code: http.StatusBadRequest, Kind: KindAlreadyClosed, Message: "Cash session is already closed"}
	ErrSessionAlreadyOpen   = &AppError{Code: http.StatusBadRequest, Kind: KindSessionAlreadyOpen, Message: "Cashier already has an open cash session"}
	ErrInsufficientStock    = &AppError{Code: http.StatusBadRequest, Kind: KindInsufficientStock, Message: "Insufficient stock"}
	ErrProductUnavailable   = &AppError{Code: http.StatusBadRequest, Kind: KindProductUnavailable, Message: "Product is not available"}
	ErrConfigurationMissing = &AppError{Code: http.StatusBadRequest, Kind: KindConfigurationMissing, Message: "Business configuration not found"}
	ErrDocumentTypeDisabled = &AppError{Code: http.StatusBadRequest, Kind: KindDocumentTypeDisabled, Message: "Document type is not enabled for this business"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForStatus(code),
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldValidationError is a shorthand for a single failing field
func NewFieldValidationError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewForbiddenError creates a forbidden error with a custom message
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Kind:    KindForbidden,
		Message: message,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewInvalidStateError creates an invalid state error with a custom message
func NewInvalidStateError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindInvalidState,
		Message: message,
	}
}

// NewInsufficientStockError names the product that ran short
func NewInsufficientStockError(productName string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindInsufficientStock,
		Message: "Insufficient stock for " + productName,
	}
}

// NewProductUnavailableError names the inactive product
func NewProductUnavailableError(productName string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindProductUnavailable,
		Message: "Product " + productName + " is not available",
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible.
// Anything that is not an AppError becomes a generic 500 without leaking the cause.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}
