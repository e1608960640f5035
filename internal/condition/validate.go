package condition

import (
	"github.com/quantlab/quiver/internal/core"
)

// Validate checks a condition tree against the set of available column names
// before evaluation. Dispatch is an exhaustive switch over the closed variant
// set; an unknown variant is a malformed tree.
func Validate(cond Condition, columns []string) error {
	available := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		available[name] = struct{}{}
	}
	return validate(cond, available)
}

func validate(cond Condition, columns map[string]struct{}) error {
	switch c := cond.(type) {
	case *NumericCompare:
		if !c.Op.valid() {
			return core.Wrapf(core.ErrMalformedCondition, "unsupported operator %q", string(c.Op))
		}
		if _, ok := columns[c.Column]; !ok {
			return core.Wrapf(core.ErrMissingColumn, "column %q", c.Column)
		}
	case *SignalCross:
		if c.Direction != Golden && c.Direction != Death {
			return core.Wrapf(core.ErrMalformedCondition, "unsupported cross direction %q", string(c.Direction))
		}
		for _, name := range []string{c.Fast, c.Slow} {
			if _, ok := columns[name]; !ok {
				return core.Wrapf(core.ErrMissingColumn, "column %q", name)
			}
		}
	case *Pattern:
		// Column usage is internal to the external evaluator; nothing to check.
	case *Logic:
		switch c.Op {
		case AND, OR:
			if len(c.Children) < 2 {
				return core.Wrapf(core.ErrMalformedCondition, "%s requires at least 2 children, got %d", c.Op, len(c.Children))
			}
		case NOT:
			if len(c.Children) != 1 {
				return core.Wrapf(core.ErrMalformedCondition, "NOT requires exactly 1 child, got %d", len(c.Children))
			}
		default:
			return core.Wrapf(core.ErrMalformedCondition, "unsupported logic operator %q", string(c.Op))
		}
		for _, child := range c.Children {
			if err := validate(child, columns); err != nil {
				return err
			}
		}
	default:
		return core.Wrapf(core.ErrMalformedCondition, "unknown condition variant %T", cond)
	}
	return nil
}
