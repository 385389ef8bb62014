package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/plughost/credhub/internal/provider"
	"github.com/plughost/credhub/internal/registry"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	ErrCodeInvalidNamespace    ErrorCode = "INVALID_NAMESPACE"
	ErrCodeCredentialNotFound  ErrorCode = "CREDENTIAL_NOT_FOUND"
	ErrCodeProviderNotFound    ErrorCode = "PROVIDER_NOT_FOUND"
	ErrCodeNoProvider          ErrorCode = "NO_PROVIDER_REGISTERED"
	ErrCodeValidationError     ErrorCode = "VALIDATION_ERROR"
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteError writes a standardized error response
func WriteError(w http.ResponseWriter, code ErrorCode, message string, statusCode int, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// MapError maps registry and provider errors to HTTP responses
func MapError(err error) (ErrorCode, string, int) {
	switch {
	case errors.Is(err, registry.ErrInvalidNamespace):
		return ErrCodeInvalidNamespace, "Namespace id is missing or invalid", http.StatusBadRequest

	case errors.Is(err, registry.ErrNoProvider):
		return ErrCodeNoProvider, "No credential provider registered", http.StatusServiceUnavailable

	case errors.Is(err, registry.ErrProviderNotFound):
		return ErrCodeProviderNotFound, "Provider not found", http.StatusNotFound

	case errors.Is(err, provider.ErrNotFound):
		return ErrCodeCredentialNotFound, "Credential not found", http.StatusNotFound

	case errors.Is(err, provider.ErrUnavailable):
		return ErrCodeProviderUnavailable, "Credential provider unavailable", http.StatusServiceUnavailable

	default:
		return ErrCodeProviderUnavailable, "Internal server error", http.StatusInternalServerError
	}
}
