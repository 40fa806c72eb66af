// Package uri validates ajson:// identifiers and transforms them into
// their well-known HTTPS discovery form. Validation is structural only;
// nothing is resolved or fetched over the network.
package uri

// Parsed holds the generic URI components of an ajson:// identifier.
// Missing optional parts are empty strings, never absent.
type Parsed struct {
	Scheme    string `json:"scheme"`
	Authority string `json:"authority"`
	Path      string `json:"path"`
	Query     string `json:"query"`
	Fragment  string `json:"fragment"`
}

// ValidationResult is the outcome of validating one URI. Valid is true
// exactly when Errors is empty; warnings never affect validity.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	URI      string   `json:"uri"`
	Parsed   Parsed   `json:"parsed"`
}
