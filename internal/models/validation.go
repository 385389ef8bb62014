package models

import (
	"fmt"
	"strings"
)

const (
	maxNamespaceLength    = 256
	maxCredentialIDLength = 512
	maxSecretLength       = 64 * 1024
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidateNamespace validates a namespace id. Empty and whitespace-only
// values are rejected; the separator character is reserved.
func ValidateNamespace(namespace string) error {
	if strings.TrimSpace(namespace) == "" {
		return &ValidationError{Field: "namespace", Message: "namespace is required"}
	}
	if len(namespace) > maxNamespaceLength {
		return &ValidationError{Field: "namespace", Message: fmt.Sprintf("namespace must be at most %d characters", maxNamespaceLength)}
	}
	if strings.Contains(namespace, Separator) {
		return &ValidationError{Field: "namespace", Message: fmt.Sprintf("namespace must not contain %q", Separator)}
	}
	return nil
}

// ValidateCredentialID validates a caller-supplied credential id
func ValidateCredentialID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "credential_id", Message: "credential id is required"}
	}
	if len(id) > maxCredentialIDLength {
		return &ValidationError{Field: "credential_id", Message: fmt.Sprintf("credential id must be at most %d characters", maxCredentialIDLength)}
	}
	return nil
}

// ValidateSecret validates a secret value. Empty secrets are allowed;
// some hosts store empty passwords deliberately.
func ValidateSecret(secret string) error {
	if len(secret) > maxSecretLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("secret must be at most %d bytes", maxSecretLength)}
	}
	return nil
}
