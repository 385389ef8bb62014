package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/plughost/credhub/internal/models"
)

// FileProvider implements Provider using a JSON vault file. Writes go
// through a temp file and an atomic rename; failed persists roll back
// the in-memory change. Secrets are sealed with AES-256-GCM when a
// sealer is configured.
type FileProvider struct {
	filePath string
	mu       sync.RWMutex
	vault    *models.Vault
	sealer   *Sealer
	logger   *slog.Logger
}

// NewFileProvider creates a file-backed provider. sealer may be nil, in
// which case secrets are stored in plaintext.
func NewFileProvider(filePath string, sealer *Sealer, logger *slog.Logger) (*FileProvider, error) {
	fp := &FileProvider{
		filePath: filePath,
		sealer:   sealer,
		logger:   logger,
	}

	if err := fp.load(); err != nil {
		return nil, fmt.Errorf("failed to load vault: %w", err)
	}

	return fp, nil
}

// Name returns the backend type name
func (fp *FileProvider) Name() string {
	return "file"
}

// load reads the vault from disk or creates an empty one
func (fp *FileProvider) load() error {
	if _, err := os.Stat(fp.filePath); os.IsNotExist(err) {
		fp.vault = models.NewVault()
		fp.logger.Info("Vault file not found, creating empty vault",
			"file_path", fp.filePath)

		dir := filepath.Dir(fp.filePath)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}

		if err := fp.saveToFile(); err != nil {
			return fmt.Errorf("failed to create vault file: %w", err)
		}
		return nil
	}

	fileData, err := os.ReadFile(fp.filePath)
	if err != nil {
		return fmt.Errorf("failed to read vault file: %w", err)
	}

	var vault models.Vault
	if err := json.Unmarshal(fileData, &vault); err != nil {
		return fmt.Errorf("failed to parse vault file (invalid JSON syntax): %w", err)
	}
	if vault.Credentials == nil {
		vault.Credentials = make(map[string]*models.Credential)
	}

	fp.vault = &vault
	fp.logger.Info("Vault file loaded",
		"file_path", fp.filePath,
		"credential_count", len(fp.vault.Credentials),
		"sealed", fp.sealer != nil)
	return nil
}

// saveToFile writes the vault to disk atomically (temp file + rename)
func (fp *FileProvider) saveToFile() error {
	jsonData, err := json.MarshalIndent(fp.vault, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}

	dir := filepath.Dir(fp.filePath)
	tempFile, err := os.CreateTemp(dir, ".vault-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tempFile = nil

	if err := os.Chmod(tempPath, 0600); err != nil {
		return fmt.Errorf("failed to set vault file mode: %w", err)
	}
	if err := os.Rename(tempPath, fp.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Save stores a credential under the composite key
func (fp *FileProvider) Save(ctx context.Context, key string, cred *models.Credential) error {
	stored := &models.Credential{ID: cred.ID, Secret: cred.Secret}
	if fp.sealer != nil {
		sealed, err := fp.sealer.Seal(cred.Secret)
		if err != nil {
			fp.logger.Error("Failed to seal secret", "key", key, "error", err)
			return ErrUnavailable
		}
		stored.Secret = sealed
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	previous, existed := fp.vault.Credentials[key]
	fp.vault.Credentials[key] = stored

	if err := fp.saveToFile(); err != nil {
		// Rollback in-memory change
		if existed {
			fp.vault.Credentials[key] = previous
		} else {
			delete(fp.vault.Credentials, key)
		}
		fp.logger.Error("Vault write failed",
			"operation", "save_credential",
			"error", err)
		return ErrUnavailable
	}

	fp.logger.Info("Credential saved", "provider", "file")
	return nil
}

// Read retrieves a credential by composite key
func (fp *FileProvider) Read(ctx context.Context, key string) (*models.Credential, error) {
	fp.mu.RLock()
	stored, exists := fp.vault.Credentials[key]
	fp.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}

	if fp.sealer == nil {
		return &models.Credential{ID: stored.ID, Secret: stored.Secret}, nil
	}

	secret, err := fp.sealer.Open(stored.Secret)
	if err != nil {
		fp.logger.Error("Failed to unseal secret", "key", key, "error", err)
		return nil, ErrUnavailable
	}
	return &models.Credential{ID: stored.ID, Secret: secret}, nil
}

// Delete removes a credential. Deleting an absent key succeeds.
func (fp *FileProvider) Delete(ctx context.Context, key string) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	previous, existed := fp.vault.Credentials[key]
	if !existed {
		return nil
	}

	delete(fp.vault.Credentials, key)

	if err := fp.saveToFile(); err != nil {
		// Rollback
		fp.vault.Credentials[key] = previous
		fp.logger.Error("Vault write failed",
			"operation", "delete_credential",
			"error", err)
		return ErrUnavailable
	}

	fp.logger.Info("Credential deleted", "provider", "file")
	return nil
}

// Keys returns all stored composite keys in sorted order
func (fp *FileProvider) Keys(ctx context.Context) ([]string, error) {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	keys := make([]string, 0, len(fp.vault.Credentials))
	for k := range fp.vault.Credentials {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op for file-backed vaults
func (fp *FileProvider) Close() error {
	return nil
}
