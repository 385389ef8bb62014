package validation

import (
	"fmt"
	"strings"
)

// ValidateNamespace validates a namespace argument before it is sent to
// the server. The server applies the same rules; checking here gives a
// usable error message without a round trip.
func ValidateNamespace(namespace string) error {
	if strings.TrimSpace(namespace) == "" {
		return fmt.Errorf("namespace is required and cannot be empty")
	}
	if strings.Contains(namespace, "|") {
		return fmt.Errorf("namespace cannot contain '|', got: '%s'", namespace)
	}
	return nil
}

// ValidateCredentialID validates a credential id argument
func ValidateCredentialID(id string) error {
	if id == "" {
		return fmt.Errorf("credential id is required and cannot be empty")
	}
	return nil
}
