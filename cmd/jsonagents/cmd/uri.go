package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/json-agents/jsonagents-go/internal/domain/uri"
)

var uriCmd = &cobra.Command{
	Use:   "uri <uri>",
	Short: "Validate an ajson:// URI",
	Long: `Validate an ajson:// agent identifier URI.

The URI is decomposed into scheme, authority, path, query, and fragment,
and each component is checked against the ajson:// grammar.

Examples:
  jsonagents uri "ajson://example.com/my-agent"
  jsonagents uri "ajson://localhost:8080/dev-agent#tools"`,
	Args: cobra.ExactArgs(1),
	RunE: runURI,
}

var toHTTPSCmd = &cobra.Command{
	Use:   "to-https <uri>",
	Short: "Convert an ajson:// URI to its .well-known HTTPS URL",
	Long: `Convert a valid ajson:// URI to the HTTPS URL where the agent
manifest is published.

Example:
  jsonagents to-https "ajson://example.com/my-agent"
  https://example.com/.well-known/my-agent.agents.json`,
	Args: cobra.ExactArgs(1),
	RunE: runToHTTPS,
}

func init() {
	rootCmd.AddCommand(uriCmd)
	rootCmd.AddCommand(toHTTPSCmd)
}

func runURI(cmd *cobra.Command, args []string) error {
	result := uri.NewValidator().Validate(args[0])

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
			return err
		}
	} else {
		printDiagnostics(result.Valid, result.Errors, result.Warnings)
	}

	if !result.Valid {
		return fmt.Errorf("URI is invalid")
	}
	return nil
}

func runToHTTPS(cmd *cobra.Command, args []string) error {
	httpsURL, err := uri.NewValidator().ToHTTPS(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		out := map[string]string{"uri": args[0], "https": httpsURL}
		return json.NewEncoder(os.Stdout).Encode(out)
	}
	fmt.Println(httpsURL)
	return nil
}
