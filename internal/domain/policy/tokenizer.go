package policy

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// stringLiteralPattern matches single-quoted string literals with
// backslash escapes, e.g. 'it\'s fine'.
var stringLiteralPattern = regexp.MustCompile(`'([^'\\]|\\.)*'`)

// operatorPlaceholders protect multi-word and underscore operators from
// being fragmented by whitespace splitting. The NUL sentinels cannot occur
// in a well-formed expression, so the substitution is collision-free
// against ordinary text. Substitution is still purely textual: an operator
// keyword that is a substring of an identifier (an identifier containing
// "contains", say) is replaced too. That is a known limitation of the
// tokenizer, kept for compatibility with the reference validator.
var operatorPlaceholders = []struct {
	op          string
	placeholder string
}{
	{"starts_with", "\x00STARTS_WITH\x00"},
	{"ends_with", "\x00ENDS_WITH\x00"},
	{"not in", "\x00NOT_IN\x00"},
	{"contains", "\x00CONTAINS\x00"},
}

func stringPlaceholder(i int) string {
	return fmt.Sprintf("\x00STRING%d\x00", i)
}

// Tokenize splits a where-clause expression into textual tokens.
//
// Multi-word operators and quoted string literals are each replaced with a
// placeholder before whitespace splitting so they survive as single
// tokens, then restored afterwards. Each of "()[]{}" is emitted as its own
// one-character token. Tokens carry no byte offsets; diagnostics reference
// token text only.
func Tokenize(expression string) ([]string, error) {
	if strings.ContainsRune(expression, '\x00') {
		// NUL bytes collide with the placeholder sentinels.
		return nil, errors.New("expression contains a NUL byte")
	}

	expr := expression
	for _, p := range operatorPlaceholders {
		expr = strings.ReplaceAll(expr, p.op, p.placeholder)
	}

	// Extract string literals so whitespace or operator text inside
	// quotes is not misread as code.
	literals := stringLiteralPattern.FindAllString(expr, -1)
	for i, lit := range literals {
		expr = strings.Replace(expr, lit, stringPlaceholder(i), 1)
	}

	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range expr {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		case strings.ContainsRune("()[]{}", r):
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()

	// Restore string literals first: a literal may itself contain an
	// operator placeholder, which the second loop then rewrites back.
	restored := make([]string, 0, len(tokens))
	for _, token := range tokens {
		for i, lit := range literals {
			token = strings.ReplaceAll(token, stringPlaceholder(i), lit)
		}
		for _, p := range operatorPlaceholders {
			token = strings.ReplaceAll(token, p.placeholder, p.op)
		}
		restored = append(restored, token)
	}

	return restored, nil
}
