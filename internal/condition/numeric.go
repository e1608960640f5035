package condition

import (
	"fmt"
	"strconv"

	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/series"
)

// Operator is a numeric comparison operator.
type Operator string

const (
	OpGT  Operator = ">"
	OpGTE Operator = ">="
	OpLT  Operator = "<"
	OpLTE Operator = "<="
	OpEQ  Operator = "=="
	OpNEQ Operator = "!="
)

func (o Operator) valid() bool {
	switch o {
	case OpGT, OpGTE, OpLT, OpLTE, OpEQ, OpNEQ:
		return true
	}
	return false
}

// NumericCompare triggers on rows where column OP value holds.
type NumericCompare struct {
	id     string
	Column string
	Op     Operator
	Value  float64
}

// Numeric creates a numeric comparison condition.
func Numeric(column string, op Operator, value float64) (*NumericCompare, error) {
	if column == "" {
		return nil, core.Wrapf(core.ErrMalformedCondition, "numeric compare: empty column name")
	}
	if !op.valid() {
		return nil, core.Wrapf(core.ErrMalformedCondition, "numeric compare: unsupported operator %q", string(op))
	}
	return &NumericCompare{id: newID(), Column: column, Op: op, Value: value}, nil
}

func (c *NumericCompare) ID() string { return c.id }

func (c *NumericCompare) Kind() Kind { return KindNumericCompare }

func (c *NumericCompare) Describe() string {
	return fmt.Sprintf("%s %s %s", c.Column, c.Op, strconv.FormatFloat(c.Value, 'g', -1, 64))
}

// Evaluate applies the comparison per row.
func (c *NumericCompare) Evaluate(tbl *series.Table) ([]bool, error) {
	col, ok := tbl.Column(c.Column)
	if !ok {
		return nil, core.Wrapf(core.ErrMissingColumn, "column %q", c.Column)
	}

	out := make([]bool, len(col))
	switch c.Op {
	case OpGT:
		for i, v := range col {
			out[i] = v > c.Value
		}
	case OpGTE:
		for i, v := range col {
			out[i] = v >= c.Value
		}
	case OpLT:
		for i, v := range col {
			out[i] = v < c.Value
		}
	case OpLTE:
		for i, v := range col {
			out[i] = v <= c.Value
		}
	case OpEQ:
		for i, v := range col {
			out[i] = v == c.Value
		}
	case OpNEQ:
		for i, v := range col {
			out[i] = v != c.Value
		}
	default:
		return nil, core.Wrapf(core.ErrMalformedCondition, "unsupported operator %q", string(c.Op))
	}
	return out, nil
}
