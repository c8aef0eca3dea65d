package services

import (
	"errors"
	"fmt"

	"github.com/upb/coffee-shop/repositories"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeBadRequest    ErrorType = "bad_request"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeUnprocessable ErrorType = "unprocessable"
)

// Persistence kinds reported with bad_request errors
const (
	KindDuplicateTitle      = "duplicate_title"
	KindInvalidRecipe       = "invalid_recipe"
	KindInvalidInput        = "invalid_input"
	KindDatabaseUnavailable = "database_unavailable"
	KindPersistenceFailure  = "persistence_failure"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Kind    string
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is. Two domain errors match when their types match and,
// if the target names a kind, their kinds match too.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if e.Type != t.Type {
		return false
	}
	return t.Kind == "" || e.Kind == t.Kind
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Kind:    string(errType),
		Message: message,
		Err:     err,
	}
}

// NewPersistenceError creates a bad_request error carrying a persistence kind
func NewPersistenceError(kind, message string, err error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeBadRequest,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Domain error variables. Use them as errors.Is targets; do not attach details to them.
var (
	ErrDrinkNotFound = NewDomainError(ErrorTypeNotFound, "drink not found", nil)

	ErrMalformedBody  = NewDomainError(ErrorTypeBadRequest, "request body is not valid JSON", nil)
	ErrInvalidRecipe  = NewPersistenceError(KindInvalidRecipe, "recipe must be a list of ingredients", nil)
	ErrDuplicateTitle = NewPersistenceError(KindDuplicateTitle, "a drink with this title already exists", nil)

	ErrEmptyBody = NewDomainError(ErrorTypeUnprocessable, "request body is required", nil)
)

// FromRepositoryError converts a repository error into a DomainError.
// nil stays nil and domain errors are returned unchanged.
func FromRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return NewDomainError(ErrorTypeNotFound, "drink not found", err)
	case errors.Is(err, repositories.ErrDuplicateTitle):
		return NewPersistenceError(KindDuplicateTitle, "a drink with this title already exists", err)
	case errors.Is(err, repositories.ErrInvalidRecipe):
		return NewPersistenceError(KindInvalidRecipe, "recipe must be a list of ingredients", err)
	case errors.Is(err, repositories.ErrInvalidInput):
		return NewPersistenceError(KindInvalidInput, "value rejected by database", err)
	case errors.Is(err, repositories.ErrUnavailable):
		return NewPersistenceError(KindDatabaseUnavailable, "database unavailable", err)
	default:
		return NewPersistenceError(KindPersistenceFailure, "database operation failed", err)
	}
}

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsUnprocessableError checks if an error is an unprocessable input error
func IsUnprocessableError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnprocessable
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorKind returns the kind of a domain error, or empty string if not a domain error
func GetErrorKind(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}
