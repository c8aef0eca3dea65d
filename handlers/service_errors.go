package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/coffee-shop/auth0"
	"github.com/upb/coffee-shop/services"
	"github.com/upb/coffee-shop/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain and auth errors to the uniform error body
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var (
		authErr   *auth0.AuthError
		domainErr *services.DomainError
		writeErr  error
	)

	switch {
	case errors.As(err, &authErr):
		writeErr = utils.WriteUnauthorized(w, string(authErr.Kind), authErr.Message)

	case errors.As(err, &domainErr):
		switch domainErr.Type {
		case services.ErrorTypeNotFound:
			writeErr = utils.WriteNotFound(w, domainErr.Message)
		case services.ErrorTypeBadRequest:
			writeErr = utils.WriteBadRequest(w, domainErr.Kind, domainErr.Message, domainErr.Details)
		case services.ErrorTypeUnprocessable:
			writeErr = utils.WriteUnprocessable(w, domainErr.Message, domainErr.Details)
		default:
			// Log unexpected types but return generic message
			logger.Error("internal server error", zap.Error(err))
			writeErr = utils.WriteInternalServerError(w, "An internal error occurred")
		}

		logger.Debug("handled service error",
			zap.String("type", string(domainErr.Type)),
			zap.String("kind", domainErr.Kind),
			zap.String("message", domainErr.Message))

	default:
		logger.Error("unhandled error type", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "An unexpected error occurred")
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

// HandleValidationError answers 422 for request bodies that fail struct validation
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var details map[string]interface{}
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details = make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
	}

	if err := utils.WriteUnprocessable(w, "unprocessable", details); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
