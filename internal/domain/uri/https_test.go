package uri

import (
	"strings"
	"testing"
)

func TestToHTTPS(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		uri  string
		want string
	}{
		{
			name: "basic transform",
			uri:  "ajson://example.com/agents/router",
			want: "https://example.com/.well-known/agents/router.agents.json",
		},
		{
			name: "fragment preserved",
			uri:  "ajson://example.com/agents/router#metadata",
			want: "https://example.com/.well-known/agents/router.agents.json#metadata",
		},
		{
			name: "suffix not duplicated",
			uri:  "ajson://example.com/agents/router.agents.json",
			want: "https://example.com/.well-known/agents/router.agents.json",
		},
		{
			name: "port kept in authority",
			uri:  "ajson://localhost:8080/agents/dev",
			want: "https://localhost:8080/.well-known/agents/dev.agents.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ToHTTPS(tt.uri)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToHTTPS(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}

func TestToHTTPS_InvalidURI(t *testing.T) {
	v := NewValidator()

	if _, err := v.ToHTTPS("invalid-uri"); err == nil {
		t.Error("expected error for invalid URI, got nil")
	}
	if _, err := v.ToHTTPS(""); err == nil {
		t.Error("expected error for empty URI, got nil")
	}
}

func TestToHTTPS_TotalOnValidInput(t *testing.T) {
	v := NewValidator()

	// Warnings (userinfo, query, missing path) never block the transform.
	uris := []string{
		"ajson://user@example.com/agents/hello",
		"ajson://example.com/agents/hello?v=2",
		"ajson://example.com",
	}

	for _, uri := range uris {
		if res := v.Validate(uri); !res.Valid {
			t.Fatalf("precondition: %q should validate, errors: %v", uri, res.Errors)
		}
		got, err := v.ToHTTPS(uri)
		if err != nil {
			t.Errorf("ToHTTPS(%q) error: %v", uri, err)
			continue
		}
		if !strings.HasPrefix(got, "https://") {
			t.Errorf("ToHTTPS(%q) = %q, want https URL", uri, got)
		}
	}
}

func TestToHTTPS_Deterministic(t *testing.T) {
	v := NewValidator()

	first, err1 := v.ToHTTPS("ajson://example.com/agents/router")
	second, err2 := v.ToHTTPS("ajson://example.com/agents/router")
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if first != second {
		t.Errorf("transform not deterministic: %q vs %q", first, second)
	}
}
