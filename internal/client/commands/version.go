package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plughost/credhub/internal/client/output"
)

var clientVersion = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client version",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	if flagJSON {
		output.OutputJSON(map[string]string{"version": clientVersion}, nil)
	} else {
		fmt.Printf("credctl version %s\n", clientVersion)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
