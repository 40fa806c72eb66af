package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/json-agents/jsonagents-go/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file|dir> [file|dir...]",
	Short: "Re-validate manifests whenever they change",
	Long: `Watch manifest files or directories and re-validate on every save.

Changes are debounced (watch.debounce, default 200ms) so editor write
bursts produce one validation. Runs until interrupted.

Example:
  jsonagents watch manifests/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	strict := validateStrict || cfg.Strict

	debounce, err := time.ParseDuration(cfg.Watch.Debounce)
	if err != nil {
		return err
	}

	svc, cleanup, err := buildManifestService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	w, err := watch.New(watch.Config{
		Paths:      args,
		Debounce:   debounce,
		Extensions: cfg.Watch.Extensions,
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for changes", "paths", args)
	err = w.Run(ctx, func(path string) {
		report := svc.ValidateFile(ctx, path, strict)
		printReport(report)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
