package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/plughost/credhub/internal/provider"
)

// Config holds all configuration for the server
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`

	// Honor X-Forwarded-For/X-Real-IP for rate limiting. Only safe
	// behind a trusted reverse proxy.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// ProviderConfig holds credential provider configuration (URI-based)
type ProviderConfig struct {
	Name    string `mapstructure:"name"`     // Registered provider name
	URI     string `mapstructure:"uri"`      // Provider URI (e.g. file://./data/vault.json)
	Token   string `mapstructure:"token"`    // Opaque token for backend authentication
	SealKey string `mapstructure:"seal_key"` // Passphrase for AES-GCM sealing (blob backends)
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Type      string `mapstructure:"type"`       // none | basic
	UsersFile string `mapstructure:"users_file"` // for basic auth
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // json | text
}

// NewViper creates a viper instance with defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.trust_proxy_headers", false)
	v.SetDefault("provider.name", "default")
	v.SetDefault("provider.uri", "file://./data/vault.json")
	v.SetDefault("provider.token", "")
	v.SetDefault("provider.seal_key", "")
	v.SetDefault("auth.type", "none")
	v.SetDefault("auth.users_file", "./users.yaml")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Bind environment variables with CREDHUB_ prefix
	v.SetEnvPrefix("CREDHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads configuration from defaults, an optional YAML config file,
// and CREDHUB_* environment variables
func Load(configFile string) (*Config, error) {
	v := NewViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadWithViper loads configuration using a pre-configured viper instance.
// This allows CLI flags to be bound before loading.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Provider.Name == "" {
		return fmt.Errorf("provider.name cannot be empty")
	}

	if _, err := provider.ParseURI(c.Provider.URI); err != nil {
		return fmt.Errorf("invalid provider URI: %w", err)
	}

	if c.Auth.Type != "none" && c.Auth.Type != "basic" {
		return fmt.Errorf("auth.type must be 'none' or 'basic'")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be debug, info, warn, or error")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be json or text")
	}

	return nil
}

// ParsedProviderURI returns the parsed provider URI
func (c *Config) ParsedProviderURI() (*provider.URI, error) {
	return provider.ParseURI(c.Provider.URI)
}

// MaskToken returns a masked version of the provider token for logging
func (c *Config) MaskToken() string {
	if c.Provider.Token == "" {
		return ""
	}
	return "***"
}
