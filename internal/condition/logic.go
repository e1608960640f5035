package condition

import (
	"strings"

	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/series"
)

// LogicOp is a boolean combinator over child conditions.
type LogicOp string

const (
	AND LogicOp = "AND"
	OR  LogicOp = "OR"
	NOT LogicOp = "NOT"
)

// Logic combines child conditions row-wise. AND and OR require at least two
// children; NOT requires exactly one.
type Logic struct {
	id       string
	Op       LogicOp
	Children []Condition
}

// AllOf creates an AND condition over two or more children.
func AllOf(children ...Condition) (*Logic, error) {
	return newLogic(AND, children)
}

// AnyOf creates an OR condition over two or more children.
func AnyOf(children ...Condition) (*Logic, error) {
	return newLogic(OR, children)
}

// Not creates a negation of a single child.
func Not(child Condition) (*Logic, error) {
	return newLogic(NOT, []Condition{child})
}

func newLogic(op LogicOp, children []Condition) (*Logic, error) {
	for i, c := range children {
		if c == nil {
			return nil, core.Wrapf(core.ErrMalformedCondition, "%s: child %d is nil", op, i)
		}
	}
	switch op {
	case AND, OR:
		if len(children) < 2 {
			return nil, core.Wrapf(core.ErrMalformedCondition, "%s requires at least 2 children, got %d", op, len(children))
		}
	case NOT:
		if len(children) != 1 {
			return nil, core.Wrapf(core.ErrMalformedCondition, "NOT requires exactly 1 child, got %d", len(children))
		}
	default:
		return nil, core.Wrapf(core.ErrMalformedCondition, "unsupported logic operator %q", string(op))
	}
	return &Logic{id: newID(), Op: op, Children: children}, nil
}

func (c *Logic) ID() string { return c.id }

func (c *Logic) Kind() Kind { return KindLogic }

func (c *Logic) Describe() string {
	if c.Op == NOT {
		return "NOT (" + c.Children[0].Describe() + ")"
	}
	parts := make([]string, len(c.Children))
	for i, child := range c.Children {
		parts[i] = child.Describe()
	}
	return strings.Join(parts, " "+string(c.Op)+" ")
}

// Evaluate combines the children's sequences element-wise. Every child must
// produce a sequence aligned to the table; a mismatch is a construction bug,
// not a data problem.
func (c *Logic) Evaluate(tbl *series.Table) ([]bool, error) {
	results := make([][]bool, len(c.Children))
	for i, child := range c.Children {
		seq, err := child.Evaluate(tbl)
		if err != nil {
			return nil, err
		}
		if len(seq) != tbl.Len() {
			return nil, core.Wrapf(core.ErrMalformedCondition,
				"child %d (%s) produced %d values for %d rows", i, child.Describe(), len(seq), tbl.Len())
		}
		results[i] = seq
	}

	switch c.Op {
	case AND:
		out := make([]bool, tbl.Len())
		copy(out, results[0])
		for _, seq := range results[1:] {
			for i, v := range seq {
				out[i] = out[i] && v
			}
		}
		return out, nil
	case OR:
		out := make([]bool, tbl.Len())
		copy(out, results[0])
		for _, seq := range results[1:] {
			for i, v := range seq {
				out[i] = out[i] || v
			}
		}
		return out, nil
	case NOT:
		if len(results) != 1 {
			return nil, core.Wrapf(core.ErrMalformedCondition, "NOT requires exactly 1 child, got %d", len(results))
		}
		out := make([]bool, tbl.Len())
		for i, v := range results[0] {
			out[i] = !v
		}
		return out, nil
	default:
		return nil, core.Wrapf(core.ErrMalformedCondition, "unsupported logic operator %q", string(c.Op))
	}
}
