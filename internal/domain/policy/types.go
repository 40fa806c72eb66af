// Package policy validates where-clause expressions from JSON Agents
// manifests. Expressions are checked for lexical and structural problems
// (bad operators, unbalanced brackets, missing operands, unknown context
// variables) but are never evaluated; execution semantics belong to the
// agent runtime, not the validator.
package policy

// Operator sets from the where-clause grammar (manifest spec, Appendix B).
// Each operator belongs to exactly one set; the set determines which
// checks apply to it.
var (
	// ComparisonOps compare two scalar operands.
	ComparisonOps = map[string]bool{
		"==": true,
		"!=": true,
		">":  true,
		"<":  true,
		">=": true,
		"<=": true,
	}

	// StringOps match or inspect string operands. "~" and "!~" are regex
	// match and negated regex match.
	StringOps = map[string]bool{
		"~":           true,
		"!~":          true,
		"contains":    true,
		"starts_with": true,
		"ends_with":   true,
	}

	// CollectionOps test membership. "not in" is a single two-word
	// operator; the tokenizer keeps it as one token.
	CollectionOps = map[string]bool{
		"in":     true,
		"not in": true,
	}

	// LogicalOps combine boolean subexpressions.
	LogicalOps = map[string]bool{
		"&&":  true,
		"||":  true,
		"and": true,
		"or":  true,
	}

	// UnaryOps take a single right-hand operand.
	UnaryOps = map[string]bool{
		"not": true,
	}
)

// ValidContexts are the root segments a dotted context-variable path may
// start with. Anything else earns a warning, not an error: manifests may
// reference extension contexts the validator does not know about.
var ValidContexts = map[string]bool{
	"tool":    true,
	"message": true,
	"agent":   true,
	"runtime": true,
}

// ValidationResult is the outcome of validating a single expression.
// Valid is true exactly when Errors is empty; warnings never affect
// validity. The result is immutable once returned.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	Expression string   `json:"expression"`
}

// IsOperator reports whether the token is any known operator.
func IsOperator(token string) bool {
	return ComparisonOps[token] || StringOps[token] || CollectionOps[token] ||
		LogicalOps[token] || UnaryOps[token]
}

// isBinaryOperator reports whether the token is an operator that needs
// operands on both sides. The unary "not" is excluded.
func isBinaryOperator(token string) bool {
	return ComparisonOps[token] || StringOps[token] || CollectionOps[token] || LogicalOps[token]
}
