// Package errors provides structured error handling for the application
// with stable error codes and HTTP status mapping.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes surfaced by the catalog application
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	CodeAmbiguousResult ErrorCode = "AMBIGUOUS_RESULT"

	// Authentication flow errors
	CodeInvalidState       ErrorCode = "INVALID_STATE"
	CodeCodeExchangeFailed ErrorCode = "CODE_EXCHANGE_FAILED"
	CodeProviderError      ErrorCode = "PROVIDER_ERROR"
	CodeSubjectMismatch    ErrorCode = "SUBJECT_MISMATCH"
	CodeAudienceMismatch   ErrorCode = "AUDIENCE_MISMATCH"
	CodeAlreadyConnected   ErrorCode = "ALREADY_CONNECTED"
	CodeNotLoggedIn        ErrorCode = "NOT_LOGGED_IN"

	// Business logic errors
	CodeFoodGroupNotFound ErrorCode = "FOOD_GROUP_NOT_FOUND"
	CodeFoodItemNotFound  ErrorCode = "FOOD_ITEM_NOT_FOUND"
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidState, CodeCodeExchangeFailed,
		CodeSubjectMismatch, CodeAudienceMismatch, CodeNotLoggedIn:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeFoodGroupNotFound, CodeFoodItemNotFound, CodeUserNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeAlreadyConnected:
		// The already-connected short-circuit is reported as a success.
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined error constructors for common scenarios

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(CodeUnauthorized, message, "")
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "Access forbidden"
	}
	return NewAppError(CodeForbidden, message, "")
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", strings.Title(resource))
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(CodeConflict, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewAmbiguousResultError reports a lookup that matched more than one row
// where exactly one was required.
func NewAmbiguousResultError(resource string) *AppError {
	return NewAppError(
		CodeAmbiguousResult,
		"Ambiguous result",
		fmt.Sprintf("Lookup for %s matched more than one row", resource),
	)
}

// Business domain specific errors

// NewFoodGroupNotFoundError creates a food group not found error
func NewFoodGroupNotFoundError(groupID uint) *AppError {
	return NewAppError(
		CodeFoodGroupNotFound,
		"Food group not found",
		fmt.Sprintf("Food group with ID %d does not exist", groupID),
	).WithMetadata("food_group_id", groupID)
}

// NewFoodItemNotFoundError creates a food item not found error
func NewFoodItemNotFoundError(itemID uint) *AppError {
	return NewAppError(
		CodeFoodItemNotFound,
		"Food item not found",
		fmt.Sprintf("Food item with ID %d does not exist", itemID),
	).WithMetadata("food_item_id", itemID)
}

// NewUserNotFoundError creates a user not found error
func NewUserNotFoundError(identity string) *AppError {
	return NewAppError(
		CodeUserNotFound,
		"User not found",
		fmt.Sprintf("No user with identity %s", identity),
	).WithMetadata("identity", identity)
}

// Authentication flow errors

// NewInvalidStateError reports a CSRF state token mismatch on the login callback.
func NewInvalidStateError() *AppError {
	return NewAppError(CodeInvalidState, "Invalid state parameter", "")
}

// NewCodeExchangeFailedError reports a failed authorization code exchange.
func NewCodeExchangeFailedError(cause error) *AppError {
	return NewAppError(
		CodeCodeExchangeFailed,
		"Failed to upgrade the authorization code",
		"",
	).WithCause(cause)
}

// NewProviderError passes through an error reported by the identity provider.
func NewProviderError(detail string) *AppError {
	return NewAppError(CodeProviderError, "Identity provider error", detail)
}

// NewSubjectMismatchError reports a token whose subject does not match the
// identity it was issued for.
func NewSubjectMismatchError() *AppError {
	return NewAppError(
		CodeSubjectMismatch,
		"Token's user ID doesn't match given user ID",
		"",
	)
}

// NewAudienceMismatchError reports a token issued to a different client.
func NewAudienceMismatchError() *AppError {
	return NewAppError(
		CodeAudienceMismatch,
		"Token's client ID does not match app's",
		"",
	)
}

// NewAlreadyConnectedError reports that the session already holds a
// credential for the same subject.
func NewAlreadyConnectedError() *AppError {
	return NewAppError(CodeAlreadyConnected, "Current user is already connected", "")
}

// NewNotLoggedInError reports a logout attempt without an active credential.
func NewNotLoggedInError() *AppError {
	return NewAppError(CodeNotLoggedIn, "Current user not logged in", "")
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Metadata:  err.Metadata,
			RequestID: requestID,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}
