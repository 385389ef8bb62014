package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/plughost/credhub/internal/client/errors"
	"github.com/plughost/credhub/internal/client/output"
	"github.com/plughost/credhub/internal/client/prompts"
	"github.com/plughost/credhub/internal/client/validation"
)

var (
	// Credential command flags
	credSecret     string
	credShowSecret bool
)

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage namespaced credentials",
	Long:  `Save, read, and delete credentials scoped to a namespace.`,
}

var credentialSaveCmd = &cobra.Command{
	Use:   "save <namespace> <id>",
	Short: "Save a credential",
	Long: `Save a credential under the given namespace and id.

The secret is read from the --secret flag, or prompted with hidden input
when the flag is omitted.`,
	Args: cobra.ExactArgs(2),
	Run:  runCredentialSave,
}

var credentialReadCmd = &cobra.Command{
	Use:   "read <namespace> <id>",
	Short: "Read a credential",
	Long: `Read a credential stored under the given namespace and id.

The secret is masked unless --show-secret is given.`,
	Args: cobra.ExactArgs(2),
	Run:  runCredentialRead,
}

var credentialDeleteCmd = &cobra.Command{
	Use:   "delete <namespace> <id>",
	Short: "Delete a credential",
	Long: `Delete the credential stored under the given namespace and id.

This operation is idempotent - it succeeds even if no credential is stored.`,
	Args: cobra.ExactArgs(2),
	Run:  runCredentialDelete,
}

func init() {
	credentialCmd.AddCommand(credentialSaveCmd)
	credentialCmd.AddCommand(credentialReadCmd)
	credentialCmd.AddCommand(credentialDeleteCmd)

	credentialSaveCmd.Flags().StringVar(&credSecret, "secret", "", "Secret value (prompted if omitted)")
	credentialReadCmd.Flags().BoolVar(&credShowSecret, "show-secret", false, "Print the secret in clear text")

	rootCmd.AddCommand(credentialCmd)
}

// credentialPath builds the API path for a namespaced credential
func credentialPath(namespace, id string) string {
	return fmt.Sprintf("/api/v1/namespace/%s/credential/%s",
		url.PathEscape(namespace), url.PathEscape(id))
}

// validateCredentialArgs checks namespace and id before any request is made
func validateCredentialArgs(namespace, id string) {
	if err := validation.ValidateNamespace(namespace); err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}
	if err := validation.ValidateCredentialID(id); err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}
}

func runCredentialSave(cmd *cobra.Command, args []string) {
	namespace, id := args[0], args[1]
	validateCredentialArgs(namespace, id)

	secret := credSecret
	if !cmd.Flags().Changed("secret") {
		var err error
		secret, err = prompts.PromptSecret()
		if err != nil {
			errors.ExitWithError(err, "failed to read secret")
		}
	}

	c := getAuthenticatedClient()

	reqBody := map[string]string{"password": secret}
	resp, err := c.Put(credentialPath(namespace, id), reqBody)
	if err != nil {
		errors.ExitWithError(err, "failed to save credential")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		errors.HandleHTTPError(resp.StatusCode, fmt.Sprintf("failed to save credential: %s", string(body)))
	}

	body, _ := io.ReadAll(resp.Body)
	var saved map[string]interface{}
	json.Unmarshal(body, &saved)
	credentialID := fmt.Sprintf("%v", saved["credential_id"])

	if flagJSON {
		output.OutputJSON(map[string]string{"credential_id": credentialID}, nil)
	} else {
		output.PrintSuccess(fmt.Sprintf("Saved credential '%s'", credentialID))
	}
}

func runCredentialRead(cmd *cobra.Command, args []string) {
	namespace, id := args[0], args[1]
	validateCredentialArgs(namespace, id)

	c := getAuthenticatedClient()

	resp, err := c.Get(credentialPath(namespace, id))
	if err != nil {
		errors.ExitWithError(err, "failed to read credential")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		errors.HandleHTTPError(resp.StatusCode, fmt.Sprintf("failed to read credential: %s", string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errors.ExitWithError(err, "failed to read response")
	}

	var cred struct {
		CredentialID string `json:"credential_id"`
		Password     string `json:"password"`
	}
	if err := json.Unmarshal(body, &cred); err != nil {
		errors.ExitWithError(err, "failed to parse response")
	}

	secret := "********"
	if credShowSecret {
		secret = cred.Password
	}

	if flagJSON {
		out := map[string]string{"credential_id": cred.CredentialID}
		if credShowSecret {
			out["password"] = cred.Password
		}
		output.OutputJSON(out, nil)
	} else {
		fmt.Printf("Credential ID: %s\n", cred.CredentialID)
		fmt.Printf("Secret: %s\n", secret)
		if !credShowSecret {
			fmt.Println("Use --show-secret to print the secret in clear text")
		}
	}
}

func runCredentialDelete(cmd *cobra.Command, args []string) {
	namespace, id := args[0], args[1]
	validateCredentialArgs(namespace, id)

	// Prompt for confirmation unless --yes flag is set
	if !flagYes {
		if !prompts.ConfirmDeletion("credential", namespace+"|"+id) {
			fmt.Println("Deletion cancelled")
			return
		}
	}

	c := getAuthenticatedClient()

	resp, err := c.Delete(credentialPath(namespace, id))
	if err != nil {
		errors.ExitWithError(err, "failed to delete credential")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		errors.HandleHTTPError(resp.StatusCode, fmt.Sprintf("failed to delete credential: %s", string(body)))
	}

	if flagJSON {
		output.OutputJSON(map[string]bool{"deleted": true}, nil)
	} else {
		output.PrintSuccess(fmt.Sprintf("Deleted credential '%s|%s'", namespace, id))
	}
}
