package condition

import (
	"errors"
	"strings"
	"testing"

	"github.com/quantlab/quiver/internal/core"
)

func TestParse_Numeric(t *testing.T) {
	tests := []struct {
		expr   string
		column string
		op     Operator
		value  float64
	}{
		{"RSI_14 > 30", "RSI_14", OpGT, 30},
		{"RSI_14>30", "RSI_14", OpGT, 30},
		{"MACD_hist_12_26_9 <= 0", "MACD_hist_12_26_9", OpLTE, 0},
		{"close >= 100.5", "close", OpGTE, 100.5},
		{"volume != 0", "volume", OpNEQ, 0},
		{"change == -2.5", "change", OpEQ, -2.5},
		{"x < -10", "x", OpLT, -10},
	}

	for _, tt := range tests {
		cond, err := Parse(tt.expr)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.expr, err)
			continue
		}
		nc, ok := cond.(*NumericCompare)
		if !ok {
			t.Errorf("Parse(%q) = %T, want *NumericCompare", tt.expr, cond)
			continue
		}
		if nc.Column != tt.column || nc.Op != tt.op || nc.Value != tt.value {
			t.Errorf("Parse(%q) = {%s %s %v}, want {%s %s %v}",
				tt.expr, nc.Column, nc.Op, nc.Value, tt.column, tt.op, tt.value)
		}
	}
}

func TestParse_TwoCharOperatorsWinOverPrefixes(t *testing.T) {
	cond, err := Parse("RSI_14 >= 70")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	nc := cond.(*NumericCompare)
	if nc.Op != OpGTE {
		t.Errorf("operator = %q, want >=", nc.Op)
	}
}

func TestParse_And(t *testing.T) {
	cond, err := Parse("RSI_14 > 30 AND MACD_hist_12_26_9 <= 0")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	logic, ok := cond.(*Logic)
	if !ok || logic.Op != AND {
		t.Fatalf("Parse() = %v, want AND logic", cond)
	}
	if len(logic.Children) != 2 {
		t.Errorf("children = %d, want 2", len(logic.Children))
	}
}

func TestParse_Or(t *testing.T) {
	cond, err := Parse("RSI_14 < 30 OR RSI_14 > 70")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	logic, ok := cond.(*Logic)
	if !ok || logic.Op != OR {
		t.Fatalf("Parse() = %v, want OR logic", cond)
	}
}

func TestParse_Not(t *testing.T) {
	cond, err := Parse("NOT RSI_14 > 70")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	logic, ok := cond.(*Logic)
	if !ok || logic.Op != NOT {
		t.Fatalf("Parse() = %v, want NOT logic", cond)
	}
	if len(logic.Children) != 1 {
		t.Errorf("children = %d, want 1", len(logic.Children))
	}
}

func TestParse_Parens(t *testing.T) {
	cond, err := Parse("(RSI_14 > 30 AND RSI_14 < 70)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if logic, ok := cond.(*Logic); !ok || logic.Op != AND {
		t.Fatalf("Parse() = %v, want AND logic", cond)
	}

	cond, err = Parse("(RSI_14 < 30) OR (RSI_14 > 70)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if logic, ok := cond.(*Logic); !ok || logic.Op != OR {
		t.Fatalf("Parse() = %v, want OR logic", cond)
	}
}

// Mixed AND/OR without parentheses keeps the documented split order: AND is
// split first at top level, so "A OR B AND C" becomes OR(A, AND(B, C)) only
// after the AND split yields ["A OR B", "C"] — i.e. AND(OR(A, B), C).
func TestParse_MixedAndOrIsLeftToRightNoPrecedence(t *testing.T) {
	cond, err := Parse("a > 1 OR b > 2 AND c > 3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	root, ok := cond.(*Logic)
	if !ok || root.Op != AND {
		t.Fatalf("root = %v, want AND (split before OR)", cond)
	}
	left, ok := root.Children[0].(*Logic)
	if !ok || left.Op != OR {
		t.Fatalf("left child = %v, want OR", root.Children[0])
	}
}

func TestParse_NestedParens(t *testing.T) {
	cond, err := Parse("((RSI_14 > 30))")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := cond.(*NumericCompare); !ok {
		t.Errorf("Parse() = %T, want *NumericCompare", cond)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		expr      string
		offending string
	}{
		{"", ""},
		{"RSI_14 >", "RSI_14 >"},
		{"> 30", "> 30"},
		{"RSI_14 => 30", "RSI_14 => 30"},
		{"RSI-14 > 30", "RSI-14 > 30"},
		{"a > 1 AND", "a > 1 AND"},
		{"hello world", "hello world"},
	}
	for _, tt := range cases {
		_, err := Parse(tt.expr)
		if !errors.Is(err, core.ErrConditionSyntax) {
			t.Errorf("Parse(%q): expected CONDITION_SYNTAX, got %v", tt.expr, err)
			continue
		}
		if tt.offending != "" && !strings.Contains(err.Error(), tt.offending) {
			t.Errorf("Parse(%q): error %q does not name the offending substring", tt.expr, err)
		}
	}
}

func TestParse_DescribeRoundTrip(t *testing.T) {
	cond, err := Parse("RSI_14 > 30 AND MACD_hist_12_26_9 <= 0")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := "RSI_14 > 30 AND MACD_hist_12_26_9 <= 0"
	if cond.Describe() != want {
		t.Errorf("Describe() = %q, want %q", cond.Describe(), want)
	}
}
