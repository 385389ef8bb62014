package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "default", cfg.Provider.Name)
	assert.Equal(t, "file://./data/vault.json", cfg.Provider.URI)
	assert.Equal(t, "none", cfg.Auth.Type)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
provider:
  name: vault
  uri: mem://
auth:
  type: basic
  users_file: ./users.yaml
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "vault", cfg.Provider.Name)
	assert.Equal(t, "mem://", cfg.Provider.URI)
	assert.Equal(t, "basic", cfg.Auth.Type)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
		errMsg    string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:      "invalid port",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantError: true,
			errMsg:    "server.port",
		},
		{
			name:      "empty provider name",
			mutate:    func(c *Config) { c.Provider.Name = "" },
			wantError: true,
			errMsg:    "provider.name",
		},
		{
			name:      "invalid provider URI",
			mutate:    func(c *Config) { c.Provider.URI = "redis://localhost" },
			wantError: true,
			errMsg:    "invalid provider URI",
		},
		{
			name:      "invalid auth type",
			mutate:    func(c *Config) { c.Auth.Type = "oauth" },
			wantError: true,
			errMsg:    "auth.type",
		},
		{
			name:      "invalid logging level",
			mutate:    func(c *Config) { c.Logging.Level = "trace" },
			wantError: true,
			errMsg:    "logging.level",
		},
		{
			name:      "invalid logging format",
			mutate:    func(c *Config) { c.Logging.Format = "xml" },
			wantError: true,
			errMsg:    "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{name: "empty token", token: "", expected: ""},
		{name: "non-empty token", token: "my-secret-token", expected: "***"},
		{name: "short token", token: "x", expected: "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Provider: ProviderConfig{Token: tt.token},
			}
			assert.Equal(t, tt.expected, cfg.MaskToken())
		})
	}
}
