package condition

import (
	"fmt"

	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/series"
)

// Pattern wraps an externally supplied detector so arbitrary per-row boolean
// logic can participate in a condition tree.
type Pattern struct {
	id        string
	Name      string
	evaluator Evaluator
}

// NewPattern creates a pattern condition around an external evaluator.
func NewPattern(name string, evaluator Evaluator) (*Pattern, error) {
	if name == "" {
		return nil, core.Wrapf(core.ErrMalformedCondition, "pattern: empty name")
	}
	if evaluator == nil {
		return nil, core.Wrapf(core.ErrMalformedCondition, "pattern %q: nil evaluator", name)
	}
	return &Pattern{id: newID(), Name: name, evaluator: evaluator}, nil
}

func (c *Pattern) ID() string { return c.id }

func (c *Pattern) Kind() Kind { return KindPattern }

func (c *Pattern) Describe() string {
	return fmt.Sprintf("pattern: %s", c.Name)
}

// Evaluate delegates to the wrapped evaluator and checks its sequence is
// aligned to the table.
func (c *Pattern) Evaluate(tbl *series.Table) ([]bool, error) {
	out, err := c.evaluator.Evaluate(tbl)
	if err != nil {
		return nil, err
	}
	if len(out) != tbl.Len() {
		return nil, core.Wrapf(core.ErrMalformedCondition,
			"pattern %q returned %d values for %d rows", c.Name, len(out), tbl.Len())
	}
	return out, nil
}
