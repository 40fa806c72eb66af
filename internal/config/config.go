// Package config provides configuration types and loading for jsonagents.
//
// Configuration is file-based (jsonagents.yaml) with environment variable
// overrides. All fields are optional; sensible defaults make the CLI usable
// with no configuration at all.
package config

// Config is the top-level configuration for the jsonagents tool.
type Config struct {
	// Schema is the path to a JSON Schema file for manifest validation.
	// When empty, the bundled schema is used.
	Schema string `yaml:"schema" mapstructure:"schema"`

	// Strict promotes warnings to errors in every validation.
	Strict bool `yaml:"strict" mapstructure:"strict"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// History configures the validation run history store.
	History HistoryConfig `yaml:"history" mapstructure:"history"`

	// Serve configures the HTTP validation API.
	Serve ServeConfig `yaml:"serve" mapstructure:"serve"`

	// Watch configures file watching for continuous validation.
	Watch WatchConfig `yaml:"watch" mapstructure:"watch"`
}

// HistoryConfig configures the SQLite validation history.
type HistoryConfig struct {
	// Enabled turns run recording on or off.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	// Defaults to "~/.jsonagents/history.db" if empty.
	Path string `yaml:"path" mapstructure:"path"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	// Addr is the address to listen on (e.g., "127.0.0.1:8321", ":8321").
	// Defaults to "127.0.0.1:8321" (localhost only) if empty.
	Addr string `yaml:"addr" mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	// Debounce is how long to wait after the last file change before
	// re-validating (e.g., "200ms", "1s"). Defaults to "200ms".
	Debounce string `yaml:"debounce" mapstructure:"debounce" validate:"omitempty"`

	// Extensions limits which file extensions trigger validation.
	// Defaults to [".json", ".yaml", ".yml"].
	Extensions []string `yaml:"extensions" mapstructure:"extensions" validate:"omitempty,dive,startswith=."`
}

// SetDefaults applies sensible default values to the configuration.
func (c *Config) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = "127.0.0.1:8321"
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "200ms"
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = []string{".json", ".yaml", ".yml"}
	}
}
