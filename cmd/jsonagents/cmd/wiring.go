package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/json-agents/jsonagents-go/internal/adapter/outbound/history"
	"github.com/json-agents/jsonagents-go/internal/adapter/outbound/schema"
	"github.com/json-agents/jsonagents-go/internal/config"
	"github.com/json-agents/jsonagents-go/internal/service"
)

// historyPath resolves the SQLite history file, defaulting under the
// user's home directory. The parent directory is created if missing.
func historyPath(cfg *config.Config) (string, error) {
	path := cfg.History.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".jsonagents", "history.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create history directory: %w", err)
	}
	return path, nil
}

// buildManifestService wires the manifest service with the configured
// schema and, when enabled, the SQLite history store. The returned
// cleanup func closes the store and is safe to call when history is off.
func buildManifestService(cfg *config.Config, logger *slog.Logger) (*service.ManifestService, func(), error) {
	var store service.HistoryStore
	cleanup := func() {}

	if cfg.History.Enabled {
		path, err := historyPath(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlStore, err := history.NewSQLiteStore(path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open history store: %w", err)
		}
		store = sqlStore
		cleanup = func() {
			if err := sqlStore.Close(); err != nil {
				logger.Warn("failed to close history store", "error", err)
			}
		}
	}

	svc := service.NewManifestService(schema.NewLoader(), cfg.Schema, store, logger)
	return svc, cleanup, nil
}
