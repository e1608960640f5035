package condition

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quantlab/quiver/internal/core"
)

// numericExpr matches "<identifier> <op> <number>". Two-character operators
// come first so ">=" is not consumed as ">" followed by garbage.
var numericExpr = regexp.MustCompile(`^(\w+)\s*(>=|<=|==|!=|>|<)\s*(-?[\d.]+)$`)

// Parse builds a condition tree from a text expression such as
//
//	"RSI_14 > 30 AND MACD_hist_12_26_9 <= 0"
//
// Supported forms: numeric comparisons, NOT prefix, parenthesised groups,
// and top-level AND/OR combination. Splitting is left-to-right with AND
// handled before OR and no operator precedence; mixed AND/OR without
// parentheses keeps this documented behavior rather than conventional
// precedence.
func Parse(text string) (Condition, error) {
	cond, err := parse(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	return cond, nil
}

func parse(expr string) (Condition, error) {
	if expr == "" {
		return nil, core.Wrapf(core.ErrConditionSyntax, "empty expression")
	}

	if rest, ok := strings.CutPrefix(expr, "NOT "); ok {
		inner, err := parse(strings.TrimSpace(rest))
		if err != nil {
			return nil, err
		}
		return Not(inner)
	}

	if inner, ok := stripOuterParens(expr); ok {
		return parse(inner)
	}

	if parts := splitTopLevel(expr, " AND "); len(parts) > 1 {
		return parseChildren(AND, parts)
	}
	if parts := splitTopLevel(expr, " OR "); len(parts) > 1 {
		return parseChildren(OR, parts)
	}

	return parseNumeric(expr)
}

func parseChildren(op LogicOp, parts []string) (Condition, error) {
	children := make([]Condition, 0, len(parts))
	for _, part := range parts {
		child, err := parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if op == AND {
		return AllOf(children...)
	}
	return AnyOf(children...)
}

func parseNumeric(expr string) (Condition, error) {
	m := numericExpr.FindStringSubmatch(expr)
	if m == nil {
		return nil, core.Wrapf(core.ErrConditionSyntax, "invalid condition %q", expr)
	}
	value, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return nil, core.Wrapf(core.ErrConditionSyntax, "invalid number %q in %q", m[3], expr)
	}
	return Numeric(m[1], Operator(m[2]), value)
}

// stripOuterParens removes one pair of parentheses when they wrap the whole
// expression, so "(A AND B)" recurses on "A AND B" but "(A) OR (B)" is left
// for the top-level split.
func stripOuterParens(expr string) (string, bool) {
	if len(expr) < 2 || expr[0] != '(' || expr[len(expr)-1] != ')' {
		return "", false
	}
	depth := 0
	for i, r := range expr {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(expr)-1 {
				return "", false
			}
		}
	}
	if depth != 0 {
		return "", false
	}
	return strings.TrimSpace(expr[1 : len(expr)-1]), true
}

// splitTopLevel splits on the separator outside any parentheses.
func splitTopLevel(expr, sep string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i+len(sep) <= len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && expr[i:i+len(sep)] == sep {
			parts = append(parts, expr[start:i])
			start = i + len(sep)
			i += len(sep) - 1
		}
	}
	parts = append(parts, expr[start:])
	return parts
}
