package policy

import (
	"fmt"
	"strings"
)

// Validator checks where-clause expressions. It is stateless and safe for
// concurrent use.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate runs all checks over the expression and returns an aggregated
// result. The checks are independent linters over the token stream rather
// than a grammar: they cannot catch every malformed structure, but they
// report multiple specific diagnostics instead of stopping at the first
// parse failure, which suits a tool whose job is to help an author fix a
// manifest rather than execute it.
//
// Check order is fixed: syntax shape, operator spelling, context
// variables, bracket balance, operand adjacency.
func (v *Validator) Validate(expression string) ValidationResult {
	if expression == "" {
		return ValidationResult{
			Valid:      false,
			Errors:     []string{"Expression cannot be empty"},
			Expression: expression,
		}
	}

	tokens, err := Tokenize(expression)
	if err != nil {
		return ValidationResult{
			Valid:      false,
			Errors:     []string{fmt.Sprintf("Tokenization error: %v", err)},
			Expression: expression,
		}
	}

	var errs, warnings []string

	errs = append(errs, checkSyntax(tokens)...)
	errs = append(errs, checkOperatorSpelling(tokens)...)

	ctxErrs, ctxWarnings := checkContextVars(tokens)
	errs = append(errs, ctxErrs...)
	warnings = append(warnings, ctxWarnings...)

	// Balance is checked over the raw string, not the token stream, so a
	// bracket swallowed into a malformed token still counts.
	if !balancedDelimiters(expression) {
		errs = append(errs, "Unbalanced parentheses")
	}

	errs = append(errs, checkOperandAdjacency(tokens)...)

	return ValidationResult{
		Valid:      len(errs) == 0,
		Errors:     errs,
		Warnings:   warnings,
		Expression: expression,
	}
}

// checkSyntax flags consecutive operator tokens. The unary "not" is
// exempt on either side: "a and not b" is fine.
func checkSyntax(tokens []string) []string {
	var errs []string

	if len(tokens) == 0 {
		return []string{"Expression tokenized to empty"}
	}

	prevWasOp := false
	for i, token := range tokens {
		isOp := IsOperator(token)
		if isOp && prevWasOp && token != "not" && tokens[i-1] != "not" {
			errs = append(errs, fmt.Sprintf("Consecutive operators: %s %s", tokens[i-1], token))
		}
		prevWasOp = isOp && token != "not"
	}

	return errs
}

// checkOperatorSpelling flags common wrong-operator spellings by exact
// token match. These are hard errors: the author clearly meant an
// operator, just the wrong dialect of it.
func checkOperatorSpelling(tokens []string) []string {
	var errs []string

	for _, token := range tokens {
		switch token {
		case "===":
			errs = append(errs, "Invalid operator '==='. Use '==' for equality")
		case "=":
			errs = append(errs, "Invalid operator '='. Use '==' for comparison")
		case "&", "|":
			errs = append(errs, fmt.Sprintf("Invalid operator '%s'. Use '&&' or '||' for logical operations", token))
		case "!":
			errs = append(errs, "Invalid operator '!'. Use 'not' for negation")
		}
	}

	return errs
}

// checkContextVars validates dotted context-variable references. Unknown
// roots are warnings. A token with a bare "!" prefix (that is not "!=" or
// "!~") is a hard error, and any such error suppresses this check's
// warnings entirely: if the author is still fighting syntax there is no
// point nagging about variable names.
func checkContextVars(tokens []string) (errs, warnings []string) {
	for _, token := range tokens {
		if strings.HasPrefix(token, "!") && len(token) > 1 &&
			!strings.HasPrefix(token, "!=") && !strings.HasPrefix(token, "!~") {
			errs = append(errs, fmt.Sprintf("Invalid syntax: '%s'. Use 'not' keyword for negation, not '!' prefix", token))
		}

		if strings.Contains(token, ".") && !strings.HasPrefix(token, "'") {
			parts := strings.Split(token, ".")
			if len(parts) >= 2 && !ValidContexts[parts[0]] {
				warnings = append(warnings, fmt.Sprintf(
					"Unknown context variable '%s'. Valid contexts: agent, message, runtime, tool", parts[0]))
			}
		}
	}

	if len(errs) > 0 {
		return errs, nil
	}
	return nil, warnings
}

// balancedDelimiters reports whether every ( [ { in the raw expression is
// closed by the matching delimiter in the right order.
func balancedDelimiters(expression string) bool {
	pairs := map[rune]rune{'(': ')', '[': ']', '{': '}'}

	var stack []rune
	for _, r := range expression {
		switch r {
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 {
				return false
			}
			opening := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if pairs[opening] != r {
				return false
			}
		}
	}

	return len(stack) == 0
}

// checkOperandAdjacency verifies every binary operator has an operand on
// both sides. Missing sides are reported separately, so a lone "==" gets
// two errors.
func checkOperandAdjacency(tokens []string) []string {
	var errs []string

	for i, token := range tokens {
		if !isBinaryOperator(token) {
			continue
		}

		if i == 0 {
			errs = append(errs, fmt.Sprintf("Operator '%s' at start of expression needs left operand", token))
		} else if tokens[i-1] == "(" || tokens[i-1] == "[" {
			errs = append(errs, fmt.Sprintf("Operator '%s' after '%s' needs left operand", token, tokens[i-1]))
		}

		if i == len(tokens)-1 {
			errs = append(errs, fmt.Sprintf("Operator '%s' at end of expression needs right operand", token))
		} else if tokens[i+1] == ")" || tokens[i+1] == "]" {
			errs = append(errs, fmt.Sprintf("Operator '%s' before '%s' needs right operand", token, tokens[i+1]))
		}
	}

	return errs
}
