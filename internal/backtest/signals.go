package backtest

import (
	"time"

	"github.com/quantlab/quiver/internal/series"
)

// Triggers converts a boolean signal sequence aligned to the table into the
// ordered list of trigger timestamps. An empty list is a valid outcome, not
// an error.
func Triggers(tbl *series.Table, signals []bool) []time.Time {
	var out []time.Time
	for i, on := range signals {
		if on {
			out = append(out, tbl.Timestamp(i))
		}
	}
	return out
}
