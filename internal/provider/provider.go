package provider

import (
	"context"
	"errors"

	"github.com/plughost/credhub/internal/models"
)

var (
	// ErrNotFound is returned when a credential is not found
	ErrNotFound = errors.New("credential not found")

	// ErrUnavailable is returned when the backing store cannot be reached
	ErrUnavailable = errors.New("provider unavailable")

	// ErrTokenRequired is returned when a provider scheme requires a token but none was provided
	ErrTokenRequired = errors.New("provider token required")
)

// Provider is a pluggable credential storage backend. Keys are composite
// namespaced ids produced by models.NamespacedID; providers treat them as
// opaque strings.
//
// Delete is idempotent: removing an absent key succeeds.
type Provider interface {
	// Name returns the backend type name (e.g. "mem", "file", "keyring")
	Name() string

	// Save stores a credential under the given composite key
	Save(ctx context.Context, key string, cred *models.Credential) error

	// Read retrieves a credential; returns ErrNotFound when absent
	Read(ctx context.Context, key string) (*models.Credential, error)

	// Delete removes a credential; succeeds even when the key is absent
	Delete(ctx context.Context, key string) error

	// Close releases backend resources
	Close() error
}

// Lister is implemented by providers that can enumerate stored keys.
// Keychain-backed providers cannot.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}
