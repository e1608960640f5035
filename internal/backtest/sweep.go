package backtest

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/condition"
	"github.com/quantlab/quiver/internal/series"
)

// RunMultiple sweeps every (condition, holding period) pair and returns one
// result per successful run, in input order. Individual failures are logged
// and skipped so a single bad condition does not abort the sweep; a failed
// run contributes no result at all.
func (r *Runner) RunMultiple(ctx context.Context, tbl *series.Table, conditions []condition.Condition, holdingPeriods []int, priceColumn string) []*Result {
	if len(holdingPeriods) == 0 {
		holdingPeriods = []int{3, 5, 10, 20}
	}

	total := len(conditions) * len(holdingPeriods)
	results := make([]*Result, 0, total)

	r.logger.Info("starting sweep", zap.Int("combinations", total))

	run := 0
	for _, cond := range conditions {
		for _, holdingPeriod := range holdingPeriods {
			run++
			result, err := r.Run(ctx, tbl, cond, holdingPeriod, priceColumn)
			if err != nil {
				r.logger.Error("sweep run failed",
					zap.Int("run", run),
					zap.Int("total", total),
					zap.String("condition", cond.Describe()),
					zap.Int("holding_period_days", holdingPeriod),
					zap.Error(err))
				continue
			}
			results = append(results, result)
		}
	}

	r.logger.Info("sweep complete",
		zap.Int("succeeded", len(results)),
		zap.Int("total", total))

	return results
}
