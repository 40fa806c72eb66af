package uri

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Scheme is the custom URI scheme for agent and tool identifiers.
const Scheme = "ajson"

// SchemePrefix is the literal prefix every valid identifier starts with.
const SchemePrefix = Scheme + "://"

// Component character classes per RFC 3986. Compiled once; regexps are
// read-only and shared safely across concurrent calls.
var (
	// domainPattern matches a dot-separated sequence of DNS labels
	// (1-63 alphanumerics, internal hyphens only) or the literal
	// "localhost".
	domainPattern = regexp.MustCompile(
		`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*` +
			`[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$|^localhost$`)

	// pathPattern allows unreserved characters, sub-delimiters, ":" and
	// "@" in each slash-led segment.
	pathPattern = regexp.MustCompile(`^(/[a-zA-Z0-9._~!$&'()*+,;=:@-]*)*$`)

	// fragmentPattern additionally allows "/" and "?" per the fragment
	// grammar.
	fragmentPattern = regexp.MustCompile(`^[a-zA-Z0-9._~!$&'()*+,;=:@/?-]*$`)
)

// Validator checks ajson:// URIs. It is stateless and safe for concurrent
// use.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// split decomposes the text after the scheme prefix into generic URI
// components. It is deliberately more tolerant than net/url: a malformed
// authority (say, one containing a space) must reach the domain-grammar
// check and produce an authority diagnostic, not a parser failure.
func split(uriStr string) Parsed {
	rest := strings.TrimPrefix(uriStr, SchemePrefix)
	p := Parsed{Scheme: Scheme}

	if i := strings.Index(rest, "#"); i >= 0 {
		p.Fragment = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.Index(rest, "?"); i >= 0 {
		p.Query = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		p.Authority = rest[:i]
		p.Path = rest[i:]
	} else {
		p.Authority = rest
	}

	return p
}

// Validate checks the structure of an ajson:// URI and returns an
// aggregated result. A wrong scheme short-circuits: once the prefix is
// wrong the rest of the string is cheap to classify and there is nothing
// useful to report component by component.
func (v *Validator) Validate(uriStr string) ValidationResult {
	if uriStr == "" {
		return ValidationResult{
			Valid:  false,
			Errors: []string{"URI cannot be empty"},
			URI:    uriStr,
		}
	}

	if !strings.HasPrefix(uriStr, SchemePrefix) {
		found := "none"
		if i := strings.Index(uriStr, "://"); i >= 0 {
			found = uriStr[:i]
		}
		return ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("Invalid URI scheme. Expected 'ajson://', got: %s", found)},
			URI:    uriStr,
		}
	}

	parsed := split(uriStr)

	var errs, warnings []string

	errs = append(errs, checkAuthority(parsed.Authority, &warnings)...)
	errs = append(errs, checkPath(parsed.Path, &warnings)...)

	if parsed.Query != "" {
		// Legal but unusual for this scheme.
		warnings = append(warnings, fmt.Sprintf("Query parameters present: %s", parsed.Query))
	}

	if parsed.Fragment != "" && !fragmentPattern.MatchString(parsed.Fragment) {
		errs = append(errs, fmt.Sprintf("Invalid characters in fragment: %s", parsed.Fragment))
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
		URI:      uriStr,
		Parsed:   parsed,
	}
}

// checkAuthority validates the authority component: optional userinfo
// (discouraged, warning only), optional port in [1, 65535], and a host
// matching the domain grammar or "localhost".
func checkAuthority(authority string, warnings *[]string) []string {
	if authority == "" {
		return []string{"URI must include an authority (domain/host) component"}
	}

	var errs []string

	domainWithPort := authority
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		*warnings = append(*warnings, "URI contains userinfo (@), which is not recommended for security")
		domainWithPort = authority[i+1:]
	}

	domain := domainWithPort
	if strings.Contains(domainWithPort, ":") && domainWithPort != "localhost" {
		i := strings.LastIndex(domainWithPort, ":")
		portStr := domainWithPort[i+1:]
		if port, err := strconv.Atoi(portStr); err != nil {
			errs = append(errs, fmt.Sprintf("Invalid port in authority: %s", portStr))
		} else {
			if port < 1 || port > 65535 {
				errs = append(errs, fmt.Sprintf("Invalid port number: %d", port))
			}
			domain = domainWithPort[:i]
		}
	}

	if !domainPattern.MatchString(domain) {
		errs = append(errs, fmt.Sprintf("Invalid authority (domain): '%s'. Must be a valid domain or 'localhost'", domain))
	}

	return errs
}

// checkPath validates the path component. An absent path is a warning,
// not an error: root-level agent references are legal.
func checkPath(path string, warnings *[]string) []string {
	if path == "" {
		*warnings = append(*warnings, "URI has no path component")
		return nil
	}
	if !strings.HasPrefix(path, "/") {
		return []string{fmt.Sprintf("Path must start with '/': %s", path)}
	}
	if !pathPattern.MatchString(path) {
		return []string{fmt.Sprintf("Invalid characters in path: %s", path)}
	}
	return nil
}
