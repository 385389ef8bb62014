package provider

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/plughost/credhub/internal/models"
)

// MemoryProvider implements Provider with an in-memory map. It is the
// default backend for tests and for hosts that do not need persistence
// across restarts.
type MemoryProvider struct {
	mu     sync.RWMutex
	creds  map[string]*models.Credential
	logger *slog.Logger
}

// NewMemoryProvider creates an empty in-memory provider
func NewMemoryProvider(logger *slog.Logger) *MemoryProvider {
	return &MemoryProvider{
		creds:  make(map[string]*models.Credential),
		logger: logger,
	}
}

// Name returns the backend type name
func (m *MemoryProvider) Name() string {
	return "mem"
}

// Save stores a credential under the composite key
func (m *MemoryProvider) Save(ctx context.Context, key string, cred *models.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds[key] = &models.Credential{ID: cred.ID, Secret: cred.Secret}
	m.logger.Debug("Credential saved", "provider", "mem", "key_count", len(m.creds))
	return nil
}

// Read retrieves a credential by composite key. Callers get a copy;
// mutating the result never touches the stored entry.
func (m *MemoryProvider) Read(ctx context.Context, key string) (*models.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cred, exists := m.creds[key]
	if !exists {
		return nil, ErrNotFound
	}
	return &models.Credential{ID: cred.ID, Secret: cred.Secret}, nil
}

// Delete removes a credential. Deleting an absent key succeeds.
func (m *MemoryProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.creds, key)
	return nil
}

// Keys returns all stored composite keys in sorted order
func (m *MemoryProvider) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.creds))
	for k := range m.creds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Has reports whether a composite key is currently stored
func (m *MemoryProvider) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.creds[key]
	return exists
}

// Close is a no-op for the in-memory provider
func (m *MemoryProvider) Close() error {
	return nil
}
