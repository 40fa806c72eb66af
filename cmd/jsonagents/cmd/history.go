package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/json-agents/jsonagents-go/internal/adapter/outbound/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent validation runs",
	Long: `Show recent validation runs from the history database.

Requires history.enabled: true in the configuration (runs recorded by
validate, watch, and serve).

Example:
  jsonagents history -n 10`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := historyPath(cfg)
	if err != nil {
		return err
	}
	store, err := history.NewSQLiteStore(path, logger)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("no validation runs recorded")
		return nil
	}
	for _, e := range entries {
		status := "PASS"
		if !e.Valid {
			status = "FAIL"
		}
		fmt.Printf("%s  %s  %s  errors=%d warnings=%d  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			status, e.File, len(e.Errors), len(e.Warnings), e.Duration)
	}
	return nil
}
