package errors

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code (collaborator status, or the closest equivalent)
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

// Is matches any error carrying the same business code, so detailed copies
// still satisfy errors.Is against the predefined values.
func (e *BaseError) Is(target error) bool {
	var other AppError
	if !errors.As(target, &other) {
		return false
	}

	return other.ErrorCode() == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Client-side validation; no network call has been made.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"validation failed",
		"",
	)

	// The operation needs a signed-in identity and there is none.
	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"you must be signed in",
		"",
	)

	// The collaborator rejected the credentials or the bearer token.
	ErrAuthenticationFailed = NewBaseError(
		http.StatusUnauthorized,
		"AUTHENTICATION_FAILED",
		"authentication failed",
		"",
	)

	ErrNetwork = NewBaseError(
		http.StatusServiceUnavailable,
		"NETWORK_ERROR",
		"could not reach the store",
		"",
	)

	ErrCollaborator = NewBaseError(
		http.StatusBadGateway,
		"COLLABORATOR_ERROR",
		"the store returned an error",
		"",
	)

	// The gateway reported success but the backend did not confirm it.
	ErrPaymentVerification = NewBaseError(
		http.StatusPaymentRequired,
		"PAYMENT_VERIFICATION_FAILED",
		"payment verification failed",
		"",
	)

	ErrPaymentReferenceMismatch = NewBaseError(
		http.StatusConflict,
		"PAYMENT_REFERENCE_MISMATCH",
		"payment reference does not match this checkout",
		"",
	)

	ErrIllegalTransition = NewBaseError(
		http.StatusConflict,
		"ILLEGAL_TRANSITION",
		"illegal transition of checkout state",
		"",
	)

	ErrOrderBusy = NewBaseError(
		http.StatusConflict,
		"ORDER_BUSY",
		"order has a payment being verified",
		"",
	)

	ErrGatewayNotConfigured = NewBaseError(
		http.StatusServiceUnavailable,
		"GATEWAY_NOT_CONFIGURED",
		"payment gateway not configured, please contact support",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"resource not found",
		"",
	)
)

// APIError is a non-2xx answer from the storefront backend, implementing the AppError interface
type APIError struct {
	status  int
	method  string
	path    string
	message string
}

// NewAPIError creates a collaborator error from a response status and its decoded message
func NewAPIError(status int, method, path, message string) *APIError {
	return &APIError{
		status:  status,
		method:  method,
		path:    path,
		message: message,
	}
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.message
	if msg == "" {
		msg = http.StatusText(e.status)
	}

	return fmt.Sprintf("%s %s: %d %s", e.method, e.path, e.status, msg)
}

// Is lets APIError match ErrAuthenticationFailed, ErrNotFound or ErrCollaborator.
func (e *APIError) Is(target error) bool {
	var other AppError
	if !errors.As(target, &other) {
		return false
	}

	return other.ErrorCode() == e.ErrorCode()
}

// HTTPCode returns the collaborator's HTTP status code
func (e *APIError) HTTPCode() int {
	return e.status
}

// ErrorCode classifies the status into the client taxonomy
func (e *APIError) ErrorCode() string {
	switch e.status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthenticationFailed.ErrorCode()
	case http.StatusNotFound:
		return ErrNotFound.ErrorCode()
	default:
		return ErrCollaborator.ErrorCode()
	}
}

// Message returns the collaborator's message, or a generic one
func (e *APIError) Message() string {
	if e.message != "" {
		return e.message
	}

	return http.StatusText(e.status)
}

// Details returns the request that failed
func (e *APIError) Details() string {
	return e.method + " " + e.path
}

// NetworkError represents a transport failure before any response was received
type NetworkError struct {
	err  error
	path string
}

// NewNetworkError wraps a transport error
func NewNetworkError(err error, path string) AppError {
	return &NetworkError{
		err:  err,
		path: path,
	}
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return errors.Wrapf(e.err, "request to %s failed", e.path).Error()
}

// Unwrap exposes the transport error (context cancellation, timeouts)
func (e *NetworkError) Unwrap() error {
	return e.err
}

// Is lets NetworkError match ErrNetwork
func (e *NetworkError) Is(target error) bool {
	var other AppError
	if !errors.As(target, &other) {
		return false
	}

	return other.ErrorCode() == e.ErrorCode()
}

// HTTPCode returns the HTTP status code
func (e *NetworkError) HTTPCode() int {
	return http.StatusServiceUnavailable
}

// ErrorCode returns the business error code
func (e *NetworkError) ErrorCode() string {
	return ErrNetwork.ErrorCode()
}

// Message returns the user-friendly error message
func (e *NetworkError) Message() string {
	return ErrNetwork.Message()
}

// Details returns detailed error information
func (e *NetworkError) Details() string {
	return e.err.Error()
}

// UserMessage renders an error for end users, preferring the AppError message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr AppError
	if errors.As(err, &appErr) {
		if appErr.Details() != "" && appErr.ErrorCode() == ErrValidationFailed.ErrorCode() {
			return appErr.Details()
		}

		return appErr.Message()
	}

	return err.Error()
}
