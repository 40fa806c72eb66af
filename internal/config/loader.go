package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and environment
// variables. If configFile is empty, it searches for jsonagents.yaml/.yml in
// standard locations. The search requires an explicit YAML extension so the
// binary itself (same base name, no extension) is never matched.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file in any standard location. Set name/type without
		// search paths so ReadInConfig returns ConfigFileNotFoundError,
		// which callers handle gracefully.
		viper.SetConfigName("jsonagents")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: JSONAGENTS_SERVE_ADDR
	viper.SetEnvPrefix("JSONAGENTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches standard locations for a jsonagents config file
// with an explicit YAML extension (.yaml or .yml).
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".jsonagents"),
	}
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			paths = append(paths, filepath.Join(pd, "jsonagents"))
		}
	} else {
		paths = append(paths, "/etc/jsonagents")
	}
	return findConfigFileInPaths(paths)
}

// findConfigFileInPaths searches the given directories for jsonagents.yaml
// or .yml. Returns the first match, or empty string if none found.
func findConfigFileInPaths(paths []string) string {
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "jsonagents"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds nested config keys for environment variable
// support. Example: JSONAGENTS_HISTORY_PATH overrides history.path.
func bindNestedEnvKeys() {
	_ = viper.BindEnv("schema")
	_ = viper.BindEnv("strict")
	_ = viper.BindEnv("log_level")

	_ = viper.BindEnv("history.enabled")
	_ = viper.BindEnv("history.path")

	_ = viper.BindEnv("serve.addr")

	_ = viper.BindEnv("watch.debounce")
	// Note: watch.extensions is an array; use the config file for it.
}

// Load reads the configuration file, applies environment overrides, sets
// defaults, and validates the result. A missing config file is not an
// error: the tool runs on defaults and environment variables alone.
func Load() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path of the configuration file that was
// loaded, or empty string when running on defaults and env vars only.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
