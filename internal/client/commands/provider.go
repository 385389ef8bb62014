package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/plughost/credhub/internal/client/errors"
	"github.com/plughost/credhub/internal/client/output"
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Inspect registered credential providers",
	Long:  `List the credential providers registered on the server.`,
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered providers",
	Args:  cobra.NoArgs,
	Run:   runProviderList,
}

func init() {
	providerCmd.AddCommand(providerListCmd)
	rootCmd.AddCommand(providerCmd)
}

func runProviderList(cmd *cobra.Command, args []string) {
	c := getAuthenticatedClient()

	resp, err := c.Get("/api/v1/provider")
	if err != nil {
		errors.ExitWithError(err, "failed to list providers")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		errors.HandleHTTPError(resp.StatusCode, fmt.Sprintf("failed to list providers: %s", string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errors.ExitWithError(err, "failed to read response")
	}

	var providers struct {
		Providers []string `json:"providers"`
		Count     int      `json:"count"`
	}
	if err := json.Unmarshal(body, &providers); err != nil {
		errors.ExitWithError(err, "failed to parse response")
	}

	if flagJSON {
		output.OutputJSON(providers, nil)
	} else {
		if providers.Count == 0 {
			fmt.Println("No providers registered")
			return
		}

		table := output.NewTableWriter()
		table.WriteHeader("NAME")
		for _, name := range providers.Providers {
			table.WriteRow(name)
		}
		table.Flush()
		fmt.Println("Total: " + strconv.Itoa(providers.Count))
	}
}
