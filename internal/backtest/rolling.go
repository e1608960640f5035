package backtest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/condition"
	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/series"
)

// WindowPerformance is one sliding-window sample of a condition's results.
type WindowPerformance struct {
	Date         time.Time `json:"date"`
	WinRate      float64   `json:"win_rate"`
	MeanReturn   float64   `json:"mean_return"`
	TotalSignals int       `json:"total_signals"`
}

// RollingPerformance backtests the condition over every sliding window of
// windowSize rows, keyed by the timestamp of the row following each window.
// Windows whose run fails are logged and skipped.
func (r *Runner) RollingPerformance(ctx context.Context, tbl *series.Table, cond condition.Condition, windowSize, holdingPeriod int, priceColumn string) ([]WindowPerformance, error) {
	if tbl == nil || windowSize <= 0 || tbl.Len() < windowSize {
		length := 0
		if tbl != nil {
			length = tbl.Len()
		}
		return nil, core.Wrapf(core.ErrInvalidInput,
			"table length %d is smaller than window size %d", length, windowSize)
	}

	var out []WindowPerformance
	for i := windowSize; i < tbl.Len(); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		window, err := tbl.Slice(i-windowSize, i)
		if err != nil {
			return nil, err
		}
		result, err := r.Run(ctx, window, cond, holdingPeriod, priceColumn)
		if err != nil {
			r.logger.Warn("rolling window run failed",
				zap.Time("date", tbl.Timestamp(i)),
				zap.Error(err))
			continue
		}
		out = append(out, WindowPerformance{
			Date:         tbl.Timestamp(i),
			WinRate:      result.Stats.WinRate,
			MeanReturn:   result.Stats.MeanReturn,
			TotalSignals: result.TotalSignals,
		})
	}
	return out, nil
}
