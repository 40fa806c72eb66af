package uri

import (
	"fmt"
	"strings"
)

// WellKnownSuffix is the manifest file suffix appended when transforming
// an identifier into its discovery URL.
const WellKnownSuffix = ".agents.json"

// ToHTTPS transforms a valid ajson:// URI into the well-known HTTPS URL
// where the referenced manifest is published:
//
//	ajson://example.com/agents/router
//	-> https://example.com/.well-known/agents/router.agents.json
//
// The transformation is pure and deterministic; it fails only when the
// input does not validate.
func (v *Validator) ToHTTPS(uriStr string) (string, error) {
	result := v.Validate(uriStr)
	if !result.Valid {
		return "", fmt.Errorf("invalid ajson:// URI: %s", strings.Join(result.Errors, ", "))
	}

	path := strings.TrimLeft(result.Parsed.Path, "/")
	if !strings.HasSuffix(path, WellKnownSuffix) {
		path += WellKnownSuffix
	}

	httpsURL := fmt.Sprintf("https://%s/.well-known/%s", result.Parsed.Authority, path)
	if result.Parsed.Fragment != "" {
		httpsURL += "#" + result.Parsed.Fragment
	}

	return httpsURL, nil
}
