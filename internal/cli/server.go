package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plughost/credhub/internal/auth"
	"github.com/plughost/credhub/internal/config"
	"github.com/plughost/credhub/internal/provider"
	"github.com/plughost/credhub/internal/registry"
	"github.com/plughost/credhub/internal/server"
	"github.com/plughost/credhub/internal/server/handlers"
)

var (
	configFile        string
	flagPort          int
	flagProviderURI   string
	flagProviderToken string
)

// ServerCmd represents the server command
var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Credhub HTTP server",
	Long:  `Start the HTTP server that proxies credential storage to the configured provider backend and exposes a REST API for namespaced credential management.`,
	RunE:  runServer,
}

func init() {
	ServerCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (optional, can also use CREDHUB_CONFIG_FILE env var)")
	ServerCmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (overrides config)")
	ServerCmd.Flags().StringVar(&flagProviderURI, "provider-uri", "", "Provider URI, e.g. file://./data/vault.json or s3://endpoint/bucket/key (overrides config)")
	ServerCmd.Flags().StringVar(&flagProviderToken, "provider-token", "", "Token for backend authentication (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Check for config file from environment variable if not provided via flag
	if configFile == "" {
		configFile = os.Getenv("CREDHUB_CONFIG_FILE")
	}

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// CLI flags override config file and environment
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = flagPort
	}
	if cmd.Flags().Changed("provider-uri") {
		cfg.Provider.URI = flagProviderURI
	}
	if cmd.Flags().Changed("provider-token") {
		cfg.Provider.Token = flagProviderToken
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create logger
	logger := server.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	// Log startup
	logger.Info("Server starting",
		"version", "1.0.0",
		"port", cfg.Server.Port,
		"config_file", configFile,
		"provider", cfg.Provider.Name,
		"provider_uri", cfg.Provider.URI,
		"provider_token", cfg.MaskToken(),
		"auth_type", cfg.Auth.Type)

	// Parse provider URI
	uri, err := cfg.ParsedProviderURI()
	if err != nil {
		logger.Error("Invalid provider URI",
			"error", err,
			"provider_uri", cfg.Provider.URI)
		return fmt.Errorf("invalid provider URI: %w", err)
	}

	// Optional seal key for blob backends
	var sealer *provider.Sealer
	if cfg.Provider.SealKey != "" {
		sealer, err = provider.NewSealerFromPassphrase(cfg.Provider.SealKey)
		if err != nil {
			return fmt.Errorf("failed to initialize sealer: %w", err)
		}
		logger.Info("Secret sealing enabled")
	}

	// Initialize provider backend
	backend, err := provider.New(uri, cfg.Provider.Token, sealer, logger)
	if err != nil {
		logger.Error("Failed to initialize credential provider",
			"error", err,
			"provider_uri", cfg.Provider.URI)
		return fmt.Errorf("failed to initialize credential provider: %w", err)
	}

	// Register the provider
	reg := registry.New(logger)
	if err := reg.Register(cfg.Provider.Name, backend); err != nil {
		return fmt.Errorf("failed to register credential provider: %w", err)
	}

	// Initialize authenticator
	var authenticator auth.Authenticator
	switch cfg.Auth.Type {
	case "none":
		authenticator = auth.NewNoAuth()
		logger.Info("Authentication disabled (auth.type=none)")
	case "basic":
		authenticator, err = auth.NewBasicAuth(cfg.Auth.UsersFile, logger)
		if err != nil {
			logger.Error("Failed to initialize basic auth",
				"error", err,
				"users_file", cfg.Auth.UsersFile)
			return fmt.Errorf("failed to initialize basic auth: %w", err)
		}
	default:
		return fmt.Errorf("unsupported auth type: %s", cfg.Auth.Type)
	}

	// Create all handlers
	metricsHandler := handlers.NewMetricsHandler(logger)

	// Create server (middleware feeds the same metrics counters)
	srv := server.NewServer(cfg, logger, reg, authenticator, metricsHandler)

	credentialHandler := handlers.NewCredentialHandler(reg, metricsHandler, logger)
	providerHandler := handlers.NewProviderHandler(reg, metricsHandler, logger)
	healthHandler := handlers.NewHealthHandler(reg, logger)
	whoamiHandler := handlers.NewWhoamiHandler(authenticator, logger)

	// Set all handlers
	srv.SetHandlers(server.HandlerSet{
		Health:           healthHandler.GetHealth,
		Metrics:          metricsHandler.GetMetrics,
		Whoami:           whoamiHandler.GetWhoami,
		ListProviders:    providerHandler.ListProviders,
		ProviderOptions:  providerHandler.HandleOptions,
		SaveCredential:   credentialHandler.SaveCredential,
		ReadCredential:   credentialHandler.ReadCredential,
		DeleteCredential: credentialHandler.DeleteCredential,
	})

	// Start server
	logger.Info("Server ready to accept connections",
		"address", fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port))

	if err := srv.Start(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}

	return nil
}
