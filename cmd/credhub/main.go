package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plughost/credhub/internal/cli"
)

var version = "1.0.0"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "credhub",
	Short: "Credhub Credential Proxy Server",
	Long: `Credhub proxies credential storage for extension hosts. It registers
named provider backends and exposes a REST API for saving, reading and
deleting credentials scoped to a namespace.`,
	Version: version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(cli.ServerCmd)
	rootCmd.AddCommand(cli.AuthCmd)

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
