package commands

import (
	"encoding/base64"
	"time"

	"github.com/spf13/cobra"

	"github.com/plughost/credhub/internal/client"
	"github.com/plughost/credhub/internal/client/auth"
	"github.com/plughost/credhub/internal/client/config"
	"github.com/plughost/credhub/internal/client/errors"
)

var (
	// Global flags
	flagURL     string
	flagToken   string
	flagJSON    bool
	flagVerbose bool
	flagTimeout time.Duration
	flagYes     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "credctl",
	Short: "Credhub CLI Client",
	Long: `credctl is a command-line client for the Credhub credential proxy.

It saves, reads and deletes namespaced credentials via the REST API.`,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Server URL (or use CREDHUB_URL env var)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Authentication token in 'user:password' format (or use CREDHUB_SESSION_TOKEN env var)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation prompts")
}

// getAuthenticatedClient builds a client from resolved URL and token
func getAuthenticatedClient() *client.Client {
	serverURL, err := config.ResolveURL(flagURL)
	if err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}

	token, err := auth.ResolveToken(flagToken)
	if err != nil {
		errors.ExitWithError(err, "failed to resolve authentication token")
	}

	// Send credentials to server if available; server determines if authentication is required
	var encodedToken string
	if token != "" {
		encodedToken = base64.StdEncoding.EncodeToString([]byte(token))
	}
	return client.NewClient(serverURL, encodedToken, flagTimeout, flagVerbose)
}
