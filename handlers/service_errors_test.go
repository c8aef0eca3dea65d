package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/coffee-shop/auth0"
	"github.com/upb/coffee-shop/repositories"
	"github.com/upb/coffee-shop/services"
	"github.com/upb/coffee-shop/utils"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedKind   string
	}{
		{
			name:           "not found error",
			err:            services.ErrDrinkNotFound,
			expectedStatus: http.StatusNotFound,
			expectedKind:   "not_found",
		},
		{
			name:           "duplicate title",
			err:            services.FromRepositoryError(repositories.ErrDuplicateTitle),
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "duplicate_title",
		},
		{
			name:           "database unavailable",
			err:            fmt.Errorf("list: %w", services.FromRepositoryError(repositories.ErrUnavailable)),
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "database_unavailable",
		},
		{
			name:           "malformed body",
			err:            services.ErrMalformedBody,
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "bad_request",
		},
		{
			name:           "empty body",
			err:            services.ErrEmptyBody,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedKind:   "unprocessable",
		},
		{
			name:           "auth error keeps its kind",
			err:            auth0.NewAuthError(auth0.KindTokenExpired, "token expired", nil),
			expectedStatus: http.StatusUnauthorized,
			expectedKind:   "token_expired",
		},
		{
			name:           "unknown domain error type",
			err:            &services.DomainError{Type: "teapot", Kind: "teapot", Message: "x"},
			expectedStatus: http.StatusInternalServerError,
			expectedKind:   "internal_error",
		},
		{
			name:           "unknown error",
			err:            errors.New("unknown"),
			expectedStatus: http.StatusInternalServerError,
			expectedKind:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleServiceError(w, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var response utils.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

			assert.False(t, response.Success)
			assert.Equal(t, tt.expectedStatus, response.Error)
			assert.Equal(t, tt.expectedKind, response.Kind)
			assert.NotEmpty(t, response.Message)
		})
	}
}

func TestHandleServiceErrorWithDetails(t *testing.T) {
	err := services.NewDomainError(services.ErrorTypeUnprocessable, "missing fields", nil).
		WithDetail("title", "title is required")

	w := httptest.NewRecorder()
	HandleServiceError(w, err, zap.NewNop())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "title is required", response.Details["title"])
}

func TestHandleServiceErrorNil(t *testing.T) {
	w := httptest.NewRecorder()

	HandleServiceError(w, nil, zap.NewNop())

	// Should not write anything
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleValidationError(t *testing.T) {
	logger := zap.NewNop()

	t.Run("field errors become details", func(t *testing.T) {
		err := &utils.ValidationError{
			Message: "Validation failed",
			Fields:  map[string]string{"title": "title is required"},
		}

		w := httptest.NewRecorder()
		HandleValidationError(w, err, logger)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "unprocessable", response.Kind)
		assert.Equal(t, "unprocessable", response.Message)
		assert.Equal(t, "title is required", response.Details["title"])
	})

	t.Run("generic error", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleValidationError(w, errors.New("generic validation error"), logger)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Nil(t, response.Details)
	})
}
