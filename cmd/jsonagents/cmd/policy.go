package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/json-agents/jsonagents-go/internal/domain/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy <expression>",
	Short: "Validate a policy expression",
	Long: `Validate a policy condition expression without evaluating it.

The expression is checked for operator spelling, operand placement,
balanced delimiters, and known context variables (agent, message,
runtime, tool).

Examples:
  jsonagents policy "tool.name == 'search'"
  jsonagents policy "agent.id in ['a', 'b'] and not runtime.debug"`,
	Args: cobra.ExactArgs(1),
	RunE: runPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
}

func runPolicy(cmd *cobra.Command, args []string) error {
	result := policy.NewValidator().Validate(args[0])

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
			return err
		}
	} else {
		printDiagnostics(result.Valid, result.Errors, result.Warnings)
	}

	if !result.Valid {
		return fmt.Errorf("expression is invalid")
	}
	return nil
}

func printDiagnostics(valid bool, errs, warnings []string) {
	if valid {
		fmt.Println("valid")
	} else {
		fmt.Println("invalid")
	}
	for _, e := range errs {
		fmt.Printf("  error:   %s\n", e)
	}
	for _, w := range warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}
