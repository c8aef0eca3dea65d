package utils

import (
	"encoding/json"
	"net/http"
)

// Error kinds that are not tied to a specific failure source
const (
	KindBadRequest       = "bad_request"
	KindNotFound         = "not_found"
	KindUnprocessable    = "unprocessable"
	KindMethodNotAllowed = "method_not_allowed"
	KindUnavailable      = "service_unavailable"
	KindTimeout          = "timeout"
	KindInternal         = "internal_error"
)

// ErrorResponse is the body of every 4xx/5xx response
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Error   int                    `json:"error"`
	Message string                 `json:"message"`
	Kind    string                 `json:"kind"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response of the form {"success": true, key: value}
func WriteSuccess(w http.ResponseWriter, key string, value interface{}) error {
	return WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		key:       value,
	})
}

// WriteError writes the uniform error body
func WriteError(w http.ResponseWriter, status int, kind, message string, details map[string]interface{}) error {
	if message == "" {
		message = http.StatusText(status)
	}
	return WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
		Kind:    kind,
		Details: details,
	})
}

// WriteBadRequest writes a 400 Bad Request response
func WriteBadRequest(w http.ResponseWriter, kind, message string, details map[string]interface{}) error {
	if kind == "" {
		kind = KindBadRequest
	}
	return WriteError(w, http.StatusBadRequest, kind, message, details)
}

// WriteUnauthorized writes a 401 Unauthorized response
func WriteUnauthorized(w http.ResponseWriter, kind, message string) error {
	if message == "" {
		message = "Authentication required"
	}
	return WriteError(w, http.StatusUnauthorized, kind, message, nil)
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "resource not found"
	}
	return WriteError(w, http.StatusNotFound, KindNotFound, message, nil)
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed response
func WriteMethodNotAllowed(w http.ResponseWriter) error {
	return WriteError(w, http.StatusMethodNotAllowed, KindMethodNotAllowed, "method not allowed", nil)
}

// WriteUnprocessable writes a 422 Unprocessable Entity response
func WriteUnprocessable(w http.ResponseWriter, message string, details map[string]interface{}) error {
	if message == "" {
		message = "unprocessable"
	}
	return WriteError(w, http.StatusUnprocessableEntity, KindUnprocessable, message, details)
}

// WriteInternalServerError writes a 500 Internal Server Error response
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteError(w, http.StatusInternalServerError, KindInternal, message, nil)
}
