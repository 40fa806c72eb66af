package config

import (
	"os"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func validConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

func TestConfig_Validate_Defaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate_BadLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.LogLevel = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("error = %q, want oneof message", err)
	}
}

func TestConfig_Validate_BadServeAddr(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Serve.Addr = "not an address"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid serve addr")
	}
	if !strings.Contains(err.Error(), "host:port") {
		t.Errorf("error = %q, want host:port message", err)
	}
}

func TestConfig_Validate_BadDebounce(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Watch.Debounce = "fast"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid debounce duration")
	}
	if !strings.Contains(err.Error(), "watch.debounce") {
		t.Errorf("error = %q, want watch.debounce message", err)
	}
}

func TestConfig_Validate_BadExtension(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Watch.Extensions = []string{"json"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for extension without leading dot")
	}
	if !strings.Contains(err.Error(), "must start with") {
		t.Errorf("error = %q, want startswith message", err)
	}
}
