package auth0

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a request failed authentication
type ErrorKind string

const (
	KindMissingToken  ErrorKind = "missing_token"
	KindInvalidHeader ErrorKind = "invalid_header"
	KindTokenExpired  ErrorKind = "token_expired"
	KindInvalidClaims ErrorKind = "invalid_claims"
	KindUnauthorized  ErrorKind = "unauthorized"
)

// AuthError is returned for every authentication or permission failure.
// All kinds are reported to clients as HTTP 401.
type AuthError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new authentication error
func NewAuthError(kind ErrorKind, message string, err error) *AuthError {
	return &AuthError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of an AuthError in err's chain, or "" if there is none
func KindOf(err error) ErrorKind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return ""
}

// ExtractBearerToken returns the token from an Authorization header value.
// The header must be exactly "Bearer <token>"; the scheme is case-insensitive.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", NewAuthError(KindMissingToken, "authorization header is expected", nil)
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", NewAuthError(KindMissingToken, "authorization header must be bearer token", nil)
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return "", NewAuthError(KindMissingToken, "authorization header must start with \"Bearer\"", nil)
	}

	return parts[1], nil
}
