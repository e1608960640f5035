package backtest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/condition"
	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/series"
)

// Runner executes condition backtests against historical tables.
type Runner struct {
	logger *zap.Logger
}

// NewRunner creates a Runner. The logger is optional.
func NewRunner(logger ...*zap.Logger) *Runner {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Runner{logger: l}
}

// Run evaluates the condition over the table and measures the return realized
// holdingPeriod calendar days after each trigger. priceColumn defaults to
// "close" when empty. The context is polled between triggers; the engine
// itself defines no timeout semantics.
func (r *Runner) Run(ctx context.Context, tbl *series.Table, cond condition.Condition, holdingPeriod int, priceColumn string) (*Result, error) {
	if priceColumn == "" {
		priceColumn = series.ColumnClose
	}
	if tbl == nil || tbl.Len() == 0 {
		return nil, core.Wrapf(core.ErrInvalidInput, "input table is empty")
	}
	if holdingPeriod <= 0 {
		return nil, core.Wrapf(core.ErrInvalidInput, "holding period must be positive, got %d", holdingPeriod)
	}
	prices, ok := tbl.Column(priceColumn)
	if !ok {
		return nil, core.Wrapf(core.ErrInvalidInput, "price column %q not in table", priceColumn)
	}

	r.logger.Debug("starting backtest",
		zap.String("condition", cond.Describe()),
		zap.Int("holding_period_days", holdingPeriod),
		zap.Int("rows", tbl.Len()))

	signals, err := cond.Evaluate(tbl)
	if err != nil {
		return nil, core.WrapError(core.ErrSignalComputation, err)
	}
	if len(signals) != tbl.Len() {
		return nil, core.Wrapf(core.ErrMalformedCondition,
			"condition produced %d values for %d rows", len(signals), tbl.Len())
	}

	triggers := Triggers(tbl, signals)
	if len(triggers) == 0 {
		r.logger.Info("no signals found", zap.String("condition", cond.Describe()))
		return emptyResult(tbl, cond, holdingPeriod, priceColumn), nil
	}

	events := make([]SignalEvent, 0, len(triggers))
	returns := make([]float64, 0, len(triggers))
	holdingPeriods := make([]int, 0, len(triggers))

	for _, trigger := range triggers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Triggers come from the table's own index, so a miss cannot
		// happen for a well-formed table.
		idx, ok := tbl.IndexOf(trigger)
		if !ok {
			continue
		}
		triggerPrice := prices[idx]
		if triggerPrice == 0 {
			return nil, core.Wrapf(core.ErrInvalidInput,
				"zero trigger price at %s", trigger.Format("2006-01-02"))
		}

		// Calendar days, not trading days: weekends and holidays shrink the
		// effective trading horizon.
		target := trigger.AddDate(0, 0, holdingPeriod)
		targetPrice, ok := resolveTargetPrice(tbl, prices, target)
		if !ok {
			continue
		}

		events = append(events, SignalEvent{Timestamp: trigger, Price: triggerPrice, Kind: SignalKindBuy})
		returns = append(returns, (targetPrice-triggerPrice)/triggerPrice)
		holdingPeriods = append(holdingPeriods, holdingPeriod)
	}

	stats := Aggregate(returns, holdingPeriods)
	result := &Result{
		Signals:        events,
		Returns:        returns,
		HoldingPeriods: holdingPeriods,
		TotalSignals:   len(returns),
		Stats:          stats,
		Params: Params{
			Condition:     cond.Describe(),
			HoldingPeriod: holdingPeriod,
			PriceColumn:   priceColumn,
			DateRange:     tbl.DateRange(),
		},
	}

	r.logger.Info("backtest complete",
		zap.String("condition", cond.Describe()),
		zap.Int("total_signals", result.TotalSignals),
		zap.Float64("win_rate", stats.WinRate))

	return result, nil
}

// resolveTargetPrice picks the price row representing a nominal future date:
// exact match first, then the next available trading day, then the last row
// when the horizon extends past the table's coverage.
func resolveTargetPrice(tbl *series.Table, prices []float64, target time.Time) (float64, bool) {
	if len(prices) == 0 {
		return 0, false
	}
	if i, ok := tbl.IndexOf(target); ok {
		return prices[i], true
	}
	if i := tbl.SearchCeil(target); i < tbl.Len() {
		return prices[i], true
	}
	return prices[len(prices)-1], true
}

func emptyResult(tbl *series.Table, cond condition.Condition, holdingPeriod int, priceColumn string) *Result {
	return &Result{
		Signals:        []SignalEvent{},
		Returns:        []float64{},
		HoldingPeriods: []int{},
		Params: Params{
			Condition:     cond.Describe(),
			HoldingPeriod: holdingPeriod,
			PriceColumn:   priceColumn,
			DateRange:     tbl.DateRange(),
			Note:          "no signals found",
		},
	}
}
