package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/upb/coffee-shop/auth0"
	"github.com/upb/coffee-shop/utils"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for validating JWT tokens
type TokenValidator interface {
	// ValidateToken verifies a raw token and returns its claims
	ValidateToken(ctx context.Context, token string) (auth0.ClaimSet, error)
}

// AuthMiddleware gates routes on permissions carried by bearer tokens
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// RequirePermission returns a middleware that admits only requests whose
// bearer token is valid and grants permission. Every failure is a 401.
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			claims, err := m.authorize(ctx, r.Header.Get("Authorization"), permission)
			if err != nil {
				m.logger.Warn("authorization failed",
					zap.String("request_id", requestID),
					zap.String("required_permission", permission),
					zap.String("kind", string(auth0.KindOf(err))),
					zap.Error(err))
				m.writeAuthError(w, err)
				return
			}

			m.logger.Debug("permission check passed",
				zap.String("request_id", requestID),
				zap.String("sub", claims.Subject()),
				zap.String("required_permission", permission))

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

func (m *AuthMiddleware) authorize(ctx context.Context, header, permission string) (auth0.ClaimSet, error) {
	token, err := auth0.ExtractBearerToken(header)
	if err != nil {
		return nil, err
	}

	claims, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, ok := claims.Permissions(); !ok {
		return nil, auth0.NewAuthError(auth0.KindInvalidClaims, "permissions not included in token", nil)
	}
	if !claims.HasPermission(permission) {
		return nil, auth0.NewAuthError(auth0.KindUnauthorized, "permission not found", nil)
	}
	return claims, nil
}

func (m *AuthMiddleware) writeAuthError(w http.ResponseWriter, err error) {
	kind := string(auth0.KindInvalidHeader)
	message := "unable to verify authentication token"

	var authErr *auth0.AuthError
	if errors.As(err, &authErr) {
		kind = string(authErr.Kind)
		message = authErr.Message
	}

	if err := utils.WriteUnauthorized(w, kind, message); err != nil {
		m.logger.Error("failed to write unauthorized response", zap.Error(err))
	}
}
