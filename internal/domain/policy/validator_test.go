package policy

import (
	"reflect"
	"strings"
	"testing"
)

func containsSubstring(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestValidate_ValidExpressions(t *testing.T) {
	v := NewValidator()

	exprs := []string{
		"tool.type == 'http'",
		"tool.type == 'http' && tool.auth.method != 'none'",
		`tool.endpoint ~ '^https://.*\.internal'`,
		"tool.type in ['http', 'function']",
		"not (tool.type == 'system')",
		"message.payload contains 'urgent'",
		"agent.id starts_with 'ajson://internal'",
		"tool.endpoint ends_with '.internal.corp'",
		"tool.type not in ['system', 'plugin']",
		"(tool.type == 'http' && tool.auth.method != 'none') || (message.priority > 8 && message.urgent == true)",
	}

	for _, expr := range exprs {
		result := v.Validate(expr)
		if !result.Valid {
			t.Errorf("Validate(%q) invalid, errors: %v", expr, result.Errors)
		}
	}
}

func TestValidate_EmptyExpression(t *testing.T) {
	v := NewValidator()
	result := v.Validate("")

	if result.Valid {
		t.Fatal("expected empty expression to be invalid")
	}
	if len(result.Errors) != 1 || !strings.Contains(strings.ToLower(result.Errors[0]), "empty") {
		t.Errorf("errors = %v, want exactly one mentioning 'empty'", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
}

func TestValidate_OperatorTypos(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"triple equals", "tool.type === 'http'", "==="},
		{"single equals", "tool.type = 'http'", "'='"},
		{"single ampersand", "tool.type == 'http' & tool.auth == 'none'", "'&'"},
		{"single pipe", "a == 'x' | b == 'y'", "'|'"},
		{"bare exclamation", "a ! b", "'!'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.expr)
			if result.Valid {
				t.Fatalf("Validate(%q) valid, want invalid", tt.expr)
			}
			if !containsSubstring(result.Errors, tt.want) {
				t.Errorf("errors = %v, want one containing %q", result.Errors, tt.want)
			}
		})
	}
}

func TestValidate_TypoDetectionIsPositionIndependent(t *testing.T) {
	v := NewValidator()

	// Exact-match detection fires wherever the token appears.
	for _, expr := range []string{"a === b", "=== a", "a b ==="} {
		result := v.Validate(expr)
		if result.Valid {
			t.Errorf("Validate(%q) valid, want invalid", expr)
		}
		if !containsSubstring(result.Errors, "===") {
			t.Errorf("Validate(%q) errors = %v, want one containing \"===\"", expr, result.Errors)
		}
	}
}

func TestValidate_ExclamationPrefix(t *testing.T) {
	v := NewValidator()
	result := v.Validate("!tool.type == 'http'")

	if result.Valid {
		t.Fatal("expected '!'-prefixed token to be invalid")
	}
	if !containsSubstring(result.Errors, "not") {
		t.Errorf("errors = %v, want one mentioning 'not'", result.Errors)
	}
	// The negation error suppresses context-variable warnings entirely.
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none once a negation error is present", result.Warnings)
	}
}

func TestValidate_NegatedOperatorsNotFlagged(t *testing.T) {
	v := NewValidator()

	for _, expr := range []string{"tool.type != 'http'", "tool.endpoint !~ 'internal'"} {
		result := v.Validate(expr)
		if !result.Valid {
			t.Errorf("Validate(%q) invalid, errors: %v", expr, result.Errors)
		}
	}
}

func TestValidate_UnbalancedParentheses(t *testing.T) {
	v := NewValidator()

	tests := []string{
		"(tool.type == 'http'",
		"tool.type == 'http')",
		"[a == 'b'",
		"(a == 'b']",
		"{a == 'b'",
	}

	for _, expr := range tests {
		result := v.Validate(expr)
		if result.Valid {
			t.Errorf("Validate(%q) valid, want invalid", expr)
			continue
		}
		if !containsSubstring(result.Errors, "paren") && !containsSubstring(result.Errors, "Unbalanced") {
			t.Errorf("Validate(%q) errors = %v, want unbalanced-parentheses error", expr, result.Errors)
		}
	}
}

func TestValidate_BalanceIndependentOfOperators(t *testing.T) {
	v := NewValidator()

	// No operator errors here, only the unclosed paren.
	result := v.Validate("(a")
	if result.Valid {
		t.Fatal("expected unbalanced expression to be invalid")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Unbalanced parentheses" {
		t.Errorf("errors = %v, want exactly [Unbalanced parentheses]", result.Errors)
	}
}

func TestValidate_MissingOperands(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		expr string
	}{
		{"operator at start", "== 'http'"},
		{"operator at end", "tool.type =="},
		{"operator after open paren", "( == 'http' )"},
		{"operator before close bracket", "[a == ]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.expr)
			if result.Valid {
				t.Fatalf("Validate(%q) valid, want invalid", tt.expr)
			}
			if !containsSubstring(result.Errors, "operand") {
				t.Errorf("errors = %v, want one mentioning 'operand'", result.Errors)
			}
		})
	}
}

func TestValidate_LoneOperatorReportsBothSides(t *testing.T) {
	v := NewValidator()
	result := v.Validate("==")

	var operandErrs int
	for _, e := range result.Errors {
		if strings.Contains(e, "operand") {
			operandErrs++
		}
	}
	if operandErrs != 2 {
		t.Errorf("errors = %v, want separate left and right operand errors", result.Errors)
	}
}

func TestValidate_ConsecutiveOperators(t *testing.T) {
	v := NewValidator()
	result := v.Validate("a == == b")

	if result.Valid {
		t.Fatal("expected consecutive operators to be invalid")
	}
	if !containsSubstring(result.Errors, "Consecutive operators") {
		t.Errorf("errors = %v, want a consecutive-operators error", result.Errors)
	}
}

func TestValidate_NotExemptFromConsecutiveCheck(t *testing.T) {
	v := NewValidator()

	for _, expr := range []string{"a and not b", "not not a"} {
		result := v.Validate(expr)
		if containsSubstring(result.Errors, "Consecutive operators") {
			t.Errorf("Validate(%q) flagged consecutive operators: %v", expr, result.Errors)
		}
	}
}

func TestValidate_UnknownContextWarns(t *testing.T) {
	v := NewValidator()
	result := v.Validate("unknown.field == 'value'")

	if !result.Valid {
		t.Fatalf("expected expression to be valid, errors: %v", result.Errors)
	}
	if !containsSubstring(result.Warnings, "Unknown context variable") {
		t.Errorf("warnings = %v, want unknown-context warning", result.Warnings)
	}
}

func TestValidate_KnownContextsDoNotWarn(t *testing.T) {
	v := NewValidator()

	exprs := []string{
		"tool.type == 'http'",
		"message.intent == 'faq'",
		"agent.id starts_with 'ajson://'",
		"runtime.environment == 'production'",
	}

	for _, expr := range exprs {
		result := v.Validate(expr)
		if !result.Valid {
			t.Errorf("Validate(%q) invalid, errors: %v", expr, result.Errors)
		}
		if containsSubstring(result.Warnings, "Unknown context variable") {
			t.Errorf("Validate(%q) warnings = %v, want no context warning", expr, result.Warnings)
		}
	}
}

func TestValidate_WarningsDoNotAffectValidity(t *testing.T) {
	v := NewValidator()
	result := v.Validate("custom.field > 3")

	if !result.Valid {
		t.Fatalf("expected valid: errors %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for the unknown context root")
	}
	if result.Valid != (len(result.Errors) == 0) {
		t.Error("Valid must equal (len(Errors) == 0)")
	}
}

func TestValidate_Idempotent(t *testing.T) {
	v := NewValidator()
	expr := "!bad.token == 'x' && (a"

	first := v.Validate(expr)
	second := v.Validate(expr)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestValidate_ResultCarriesExpression(t *testing.T) {
	v := NewValidator()
	expr := "tool.type == 'http'"

	result := v.Validate(expr)
	if result.Expression != expr {
		t.Errorf("Expression = %q, want %q", result.Expression, expr)
	}
}
