// Package registry implements the credential provider registry: a table
// of named provider backends and the namespaced store facade handed out
// to callers.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/plughost/credhub/internal/models"
	"github.com/plughost/credhub/internal/provider"
)

var (
	// ErrInvalidNamespace is returned when a namespace id is missing or empty
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrNoProvider is returned when no provider has been registered
	ErrNoProvider = errors.New("no credential provider registered")

	// ErrProviderExists is returned when registering a duplicate provider name
	ErrProviderExists = errors.New("provider already registered")

	// ErrProviderNotFound is returned when looking up an unknown provider name
	ErrProviderNotFound = errors.New("provider not found")
)

// Registry holds registered credential providers. The first registered
// provider is the default used to resolve namespaced stores.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]provider.Provider
	order     []string
	logger    *slog.Logger
}

// New creates an empty registry
func New(logger *slog.Logger) *Registry {
	return &Registry{
		providers: make(map[string]provider.Provider),
		logger:    logger,
	}
}

// Register adds a provider under the given name
func (r *Registry) Register(name string, p provider.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("%w: %s", ErrProviderExists, name)
	}

	r.providers[name] = p
	r.order = append(r.order, name)

	r.logger.Info("Credential provider registered",
		"provider", name,
		"backend", p.Name(),
		"provider_count", len(r.providers))
	return nil
}

// Count returns the number of registered providers. Lookups through
// Store do not affect the count.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// Names returns registered provider names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Provider returns the provider registered under name
func (r *Registry) Provider(name string) (provider.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	return p, nil
}

// Store resolves a namespaced credential store bound to the default
// provider. The namespace must be a non-empty string.
func (r *Registry) Store(namespace string) (*NamespacedStore, error) {
	if err := models.ValidateNamespace(namespace); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNamespace, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, ErrNoProvider
	}

	return &NamespacedStore{
		namespace: namespace,
		provider:  r.providers[r.order[0]],
	}, nil
}

// Close closes all registered providers
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, name := range r.order {
		if err := r.providers[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close provider %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// NamespacedStore is a thin facade over a provider that scopes every
// operation to a single namespace. Keys are built as namespace|id.
type NamespacedStore struct {
	namespace string
	provider  provider.Provider
}

// Namespace returns the namespace this store is bound to
func (s *NamespacedStore) Namespace() string {
	return s.namespace
}

// Save stores a secret under namespace|id
func (s *NamespacedStore) Save(ctx context.Context, id, secret string) (*models.Credential, error) {
	if err := models.ValidateCredentialID(id); err != nil {
		return nil, err
	}
	if err := models.ValidateSecret(secret); err != nil {
		return nil, err
	}

	cred := models.NewCredential(models.NamespacedID(s.namespace, id), secret)
	if err := s.provider.Save(ctx, cred.ID, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// Read retrieves the credential stored under namespace|id
func (s *NamespacedStore) Read(ctx context.Context, id string) (*models.Credential, error) {
	if err := models.ValidateCredentialID(id); err != nil {
		return nil, err
	}
	return s.provider.Read(ctx, models.NamespacedID(s.namespace, id))
}

// Delete removes the credential stored under namespace|id. Deleting an
// absent credential succeeds.
func (s *NamespacedStore) Delete(ctx context.Context, id string) error {
	if err := models.ValidateCredentialID(id); err != nil {
		return err
	}
	return s.provider.Delete(ctx, models.NamespacedID(s.namespace, id))
}
