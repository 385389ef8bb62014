package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"

	"github.com/plughost/credhub/internal/models"
)

// KeyringProvider implements Provider on top of the OS keychain
// (macOS Keychain, Windows Credential Manager, Secret Service on Linux).
// Composite keys map to keyring accounts under a fixed service name.
// The keychain cannot enumerate accounts, so this provider does not
// implement Lister.
type KeyringProvider struct {
	service string
	logger  *slog.Logger
}

// NewKeyringProvider creates a keychain-backed provider scoped to the
// given service name.
func NewKeyringProvider(service string, logger *slog.Logger) *KeyringProvider {
	return &KeyringProvider{
		service: service,
		logger:  logger,
	}
}

// Name returns the backend type name
func (k *KeyringProvider) Name() string {
	return "keyring"
}

// Save stores the secret in the OS keychain under the composite key
func (k *KeyringProvider) Save(ctx context.Context, key string, cred *models.Credential) error {
	if err := keyring.Set(k.service, key, cred.Secret); err != nil {
		k.logger.Error("Keychain write failed",
			"service", k.service,
			"error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	k.logger.Info("Credential saved", "provider", "keyring", "service", k.service)
	return nil
}

// Read retrieves the secret from the OS keychain
func (k *KeyringProvider) Read(ctx context.Context, key string) (*models.Credential, error) {
	secret, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		k.logger.Error("Keychain read failed",
			"service", k.service,
			"error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &models.Credential{ID: key, Secret: secret}, nil
}

// Delete removes the secret from the OS keychain. Absent keys succeed.
func (k *KeyringProvider) Delete(ctx context.Context, key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		k.logger.Error("Keychain delete failed",
			"service", k.service,
			"error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	k.logger.Info("Credential deleted", "provider", "keyring", "service", k.service)
	return nil
}

// Close is a no-op for the keychain
func (k *KeyringProvider) Close() error {
	return nil
}
