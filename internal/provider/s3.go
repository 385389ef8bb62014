package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/plughost/credhub/internal/models"
)

// S3Provider implements Provider using an S3-compatible object store.
// The full vault is held in memory and persisted as a single JSON blob;
// failed persists roll back the in-memory change. Secrets are sealed
// when a sealer is configured.
type S3Provider struct {
	client *S3Client
	mu     sync.RWMutex
	vault  *models.Vault
	sealer *Sealer
	logger *slog.Logger
}

// NewS3Provider creates an S3-backed provider from a parsed s3:// URI.
// The token must be in ACCESS_KEY:SECRET_KEY format (or empty for IAM).
func NewS3Provider(uri *URI, token string, sealer *Sealer, logger *slog.Logger) (*S3Provider, error) {
	if !uri.IsS3Scheme() {
		return nil, fmt.Errorf("expected S3 URI, got scheme: %s", uri.Scheme)
	}

	accessKey, secretKey, err := ParseS3Token(token)
	if err != nil {
		return nil, fmt.Errorf("failed to parse S3 credentials: %w", err)
	}

	client, err := NewS3Client(uri.S3Endpoint(), uri.S3Bucket(), uri.S3Key(),
		accessKey, secretKey, uri.S3UseSSL(), uri.S3Region(), logger)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := client.ValidateBucket(ctx); err != nil {
		return nil, fmt.Errorf("S3 bucket validation failed: %w", err)
	}

	s := &S3Provider{
		client: client,
		sealer: sealer,
		logger: logger,
	}

	if err := s.load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load vault from S3: %w", err)
	}
	return s, nil
}

// Name returns the backend type name
func (s *S3Provider) Name() string {
	return "s3"
}

// load retrieves the vault blob from S3 on startup. A missing object
// initializes an empty vault and pushes it.
func (s *S3Provider) load(ctx context.Context) error {
	exists, err := s.client.Exists(ctx)
	if err != nil {
		return err
	}

	if !exists {
		s.vault = models.NewVault()
		s.logger.Info("S3 vault object does not exist, initializing empty vault")
		return s.persist(ctx)
	}

	data, err := s.client.Download(ctx)
	if err != nil {
		return err
	}

	var vault models.Vault
	if err := json.Unmarshal(data, &vault); err != nil {
		return fmt.Errorf("failed to parse vault object (invalid JSON syntax): %w", err)
	}
	if vault.Credentials == nil {
		vault.Credentials = make(map[string]*models.Credential)
	}

	s.vault = &vault
	s.logger.Info("S3 vault loaded",
		"credential_count", len(s.vault.Credentials),
		"sealed", s.sealer != nil)
	return nil
}

// persist uploads the current vault. Caller must hold the write lock
// (or be in single-threaded startup).
func (s *S3Provider) persist(ctx context.Context) error {
	data, err := json.MarshalIndent(s.vault, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}
	return s.client.Upload(ctx, data)
}

// Save stores a credential and persists the vault to S3
func (s *S3Provider) Save(ctx context.Context, key string, cred *models.Credential) error {
	stored := &models.Credential{ID: cred.ID, Secret: cred.Secret}
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(cred.Secret)
		if err != nil {
			s.logger.Error("Failed to seal secret", "error", err)
			return ErrUnavailable
		}
		stored.Secret = sealed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.vault.Credentials[key]
	s.vault.Credentials[key] = stored

	if err := s.persist(ctx); err != nil {
		// Rollback
		if existed {
			s.vault.Credentials[key] = previous
		} else {
			delete(s.vault.Credentials, key)
		}
		s.logger.Error("Vault write failed",
			"operation", "save_credential",
			"error", err)
		return ErrUnavailable
	}

	s.logger.Info("Credential saved", "provider", "s3")
	return nil
}

// Read retrieves a credential by composite key
func (s *S3Provider) Read(ctx context.Context, key string) (*models.Credential, error) {
	s.mu.RLock()
	stored, exists := s.vault.Credentials[key]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}

	if s.sealer == nil {
		return &models.Credential{ID: stored.ID, Secret: stored.Secret}, nil
	}

	secret, err := s.sealer.Open(stored.Secret)
	if err != nil {
		s.logger.Error("Failed to unseal secret", "error", err)
		return nil, ErrUnavailable
	}
	return &models.Credential{ID: stored.ID, Secret: secret}, nil
}

// Delete removes a credential and persists the vault. Absent keys succeed.
func (s *S3Provider) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.vault.Credentials[key]
	if !existed {
		return nil
	}

	delete(s.vault.Credentials, key)

	if err := s.persist(ctx); err != nil {
		// Rollback
		s.vault.Credentials[key] = previous
		s.logger.Error("Vault write failed",
			"operation", "delete_credential",
			"error", err)
		return ErrUnavailable
	}

	s.logger.Info("Credential deleted", "provider", "s3")
	return nil
}

// Keys returns all stored composite keys in sorted order
func (s *S3Provider) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.vault.Credentials))
	for k := range s.vault.Credentials {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; uploads are synchronous
func (s *S3Provider) Close() error {
	return nil
}
