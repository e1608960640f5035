// Package condition implements the composable boolean-condition model: a
// closed set of condition variants (numeric compare, signal cross, custom
// pattern, logic combinator) that evaluate against a series.Table to produce
// a boolean signal sequence aligned to the table's rows.
package condition

import (
	"github.com/google/uuid"
	"github.com/quantlab/quiver/internal/series"
)

// Kind identifies a condition variant.
type Kind string

const (
	KindNumericCompare Kind = "numeric_compare"
	KindSignalCross    Kind = "signal_cross"
	KindPattern        Kind = "technical_pattern"
	KindLogic          Kind = "logic_operator"
)

// Condition is a pure predicate over a time-series table. Evaluate returns
// one boolean per table row; re-evaluating the same condition on the same
// table always yields the same sequence.
type Condition interface {
	// ID is a unique identifier assigned at construction time.
	ID() string
	// Kind reports the condition variant.
	Kind() Kind
	// Describe returns a human-readable form of the condition.
	Describe() string
	// Evaluate returns a boolean sequence aligned to the table.
	Evaluate(tbl *series.Table) ([]bool, error)
}

// Evaluator is the capability a custom pattern detector must provide.
// External code implements this to plug arbitrary per-row boolean logic
// into a condition tree.
type Evaluator interface {
	Evaluate(tbl *series.Table) ([]bool, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(tbl *series.Table) ([]bool, error)

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(tbl *series.Table) ([]bool, error) {
	return f(tbl)
}

func newID() string {
	return uuid.NewString()
}
