package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/plughost/credhub/internal/models"
)

// BaoProvider implements Provider against an OpenBao (or Vault) KV v2
// secrets engine over its HTTP API. Each composite key becomes a secret
// at <mount>/data/<prefix>/<escaped-key> with credential_id and password
// fields in the data payload.
type BaoProvider struct {
	baseURL string
	token   string
	mount   string
	prefix  string
	client  *http.Client
	logger  *slog.Logger
}

// NewBaoProvider creates a KV v2 provider from a parsed bao:// URI and
// an authentication token.
func NewBaoProvider(uri *URI, token string, logger *slog.Logger) (*BaoProvider, error) {
	mount := uri.BaoMount()
	if mount == "" {
		return nil, fmt.Errorf("bao URI must include a KV mount")
	}

	scheme := "https"
	if !uri.BaoUseTLS() {
		scheme = "http"
	}

	b := &BaoProvider{
		baseURL: fmt.Sprintf("%s://%s", scheme, uri.Host),
		token:   token,
		mount:   mount,
		prefix:  strings.Trim(uri.BaoPrefix(), "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}

	logger.Info("Bao provider created",
		"address", b.baseURL,
		"mount", b.mount,
		"prefix", b.prefix)
	return b, nil
}

// Name returns the backend type name
func (b *BaoProvider) Name() string {
	return "bao"
}

// secretPath builds the KV v2 API path for a composite key.
// kind is "data" for reads/writes and "metadata" for deletes/lists.
func (b *BaoProvider) secretPath(kind, key string) string {
	segments := []string{"v1", b.mount, kind}
	if b.prefix != "" {
		segments = append(segments, b.prefix)
	}
	if key != "" {
		segments = append(segments, url.PathEscape(key))
	}
	return "/" + strings.Join(segments, "/")
}

// do executes an authenticated request against the bao API
func (b *BaoProvider) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Vault-Token", b.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// Save writes the credential as a KV v2 secret
func (b *BaoProvider) Save(ctx context.Context, key string, cred *models.Credential) error {
	payload := map[string]any{
		"data": map[string]string{
			"credential_id": cred.ID,
			"password":      cred.Secret,
		},
	}

	resp, err := b.do(ctx, http.MethodPost, b.secretPath("data", key), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		b.logger.Error("Bao write failed",
			"status", resp.StatusCode,
			"mount", b.mount)
		return fmt.Errorf("%w: bao returned status %d", ErrUnavailable, resp.StatusCode)
	}

	b.logger.Info("Credential saved", "provider", "bao", "mount", b.mount)
	return nil
}

// Read retrieves the credential from the KV v2 secret
func (b *BaoProvider) Read(ctx context.Context, key string) (*models.Credential, error) {
	resp, err := b.do(ctx, http.MethodGet, b.secretPath("data", key), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		b.logger.Error("Bao read failed",
			"status", resp.StatusCode,
			"mount", b.mount)
		return nil, fmt.Errorf("%w: bao returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var result struct {
		Data struct {
			Data map[string]string `json:"data"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode bao response: %v", ErrUnavailable, err)
	}

	secret, ok := result.Data.Data["password"]
	if !ok {
		return nil, ErrNotFound
	}

	id := result.Data.Data["credential_id"]
	if id == "" {
		id = key
	}
	return &models.Credential{ID: id, Secret: secret}, nil
}

// Delete removes the secret and its version history. Absent keys succeed.
func (b *BaoProvider) Delete(ctx context.Context, key string) error {
	resp, err := b.do(ctx, http.MethodDelete, b.secretPath("metadata", key), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
		return nil
	}

	b.logger.Error("Bao delete failed",
		"status", resp.StatusCode,
		"mount", b.mount)
	return fmt.Errorf("%w: bao returned status %d", ErrUnavailable, resp.StatusCode)
}

// Keys lists stored composite keys via the metadata endpoint
func (b *BaoProvider) Keys(ctx context.Context) ([]string, error) {
	resp, err := b.do(ctx, http.MethodGet, b.secretPath("metadata", "")+"?list=true", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: bao returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var result struct {
		Data struct {
			Keys []string `json:"keys"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode bao response: %v", ErrUnavailable, err)
	}

	keys := make([]string, 0, len(result.Data.Keys))
	for _, escaped := range result.Data.Keys {
		key, err := url.PathUnescape(escaped)
		if err != nil {
			key = escaped
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Close is a no-op; the HTTP client holds no persistent resources
func (b *BaoProvider) Close() error {
	return nil
}
