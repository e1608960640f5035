package condition

import (
	"fmt"

	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/series"
)

// Direction is the kind of line cross to detect.
type Direction string

const (
	// Golden: the fast line crosses from at-or-below to above the slow line.
	Golden Direction = "golden"
	// Death: the fast line crosses from at-or-above to below the slow line.
	Death Direction = "death"
)

// SignalCross triggers on rows where the fast column crosses the slow column
// between consecutive rows. The first row never triggers: it has no
// predecessor, so the shifted comparison is undefined.
type SignalCross struct {
	id        string
	Fast      string
	Slow      string
	Direction Direction
}

// Cross creates a line-cross condition.
func Cross(fast, slow string, dir Direction) (*SignalCross, error) {
	if fast == "" || slow == "" {
		return nil, core.Wrapf(core.ErrMalformedCondition, "signal cross: empty column name")
	}
	if dir != Golden && dir != Death {
		return nil, core.Wrapf(core.ErrMalformedCondition, "signal cross: direction must be %q or %q, got %q", Golden, Death, dir)
	}
	return &SignalCross{id: newID(), Fast: fast, Slow: slow, Direction: dir}, nil
}

func (c *SignalCross) ID() string { return c.id }

func (c *SignalCross) Kind() Kind { return KindSignalCross }

func (c *SignalCross) Describe() string {
	return fmt.Sprintf("%s %s cross %s", c.Fast, c.Direction, c.Slow)
}

// Evaluate detects crosses between consecutive rows.
func (c *SignalCross) Evaluate(tbl *series.Table) ([]bool, error) {
	fast, ok := tbl.Column(c.Fast)
	if !ok {
		return nil, core.Wrapf(core.ErrMissingColumn, "column %q", c.Fast)
	}
	slow, ok := tbl.Column(c.Slow)
	if !ok {
		return nil, core.Wrapf(core.ErrMissingColumn, "column %q", c.Slow)
	}

	out := make([]bool, len(fast))
	for i := 1; i < len(fast); i++ {
		switch c.Direction {
		case Golden:
			out[i] = fast[i-1] <= slow[i-1] && fast[i] > slow[i]
		case Death:
			out[i] = fast[i-1] >= slow[i-1] && fast[i] < slow[i]
		}
	}
	return out, nil
}
