// Package cmd provides the CLI commands for jsonagents.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/json-agents/jsonagents-go/internal/config"
)

var (
	cfgFile    string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "jsonagents",
	Short: "jsonagents - JSON Agents manifest validator",
	Long: `jsonagents validates JSON Agents manifests, policy expressions,
and ajson:// URIs.

Quick start:
  jsonagents validate agent.json
  jsonagents policy "tool.name == 'search'"
  jsonagents uri "ajson://example.com/my-agent"

Configuration:
  Config is loaded from jsonagents.yaml in the current directory,
  $HOME/.jsonagents/, or /etc/jsonagents/.

  Environment variables can override config values with the JSONAGENTS_ prefix.
  Example: JSONAGENTS_SERVE_ADDR=:9090

Commands:
  validate    Validate manifest files
  policy      Validate a policy expression
  uri         Validate an ajson:// URI
  to-https    Convert an ajson:// URI to its .well-known HTTPS URL
  watch       Re-validate manifests whenever they change
  serve       Run the HTTP validation API
  history     Show recent validation runs
  version     Print version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./jsonagents.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit results as JSON")
}

func initConfig() {
	config.InitViper(cfgFile)
}

// loadConfig loads the validated configuration and builds the logger.
// Logs go to stderr so stdout stays clean for --json output.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	if file := config.ConfigFileUsed(); file != "" {
		logger.Debug("loaded config", "file", file)
	}
	return cfg, logger, nil
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
