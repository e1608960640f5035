// Package backtest measures the forward return realized after each trigger
// of a condition over a historical table, and aggregates the per-trigger
// returns into summary statistics.
package backtest

import (
	"time"
)

// SignalKindBuy is the signal kind recorded for every trigger.
const SignalKindBuy = "buy"

// SignalEvent is one triggered row of the backtested condition.
type SignalEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Kind      string    `json:"kind"`
}

// Params echoes the inputs a result was produced with.
type Params struct {
	Condition     string `json:"condition"`
	HoldingPeriod int    `json:"holding_period_days"`
	PriceColumn   string `json:"price_column"`
	DateRange     string `json:"date_range"`
	Note          string `json:"note,omitempty"`
}

// Stats holds the aggregate performance statistics of one run.
type Stats struct {
	WinRate           float64 `json:"win_rate"`
	MeanReturn        float64 `json:"mean_return"`
	MinReturn         float64 `json:"min_return"`
	MaxReturn         float64 `json:"max_return"`
	StdReturn         float64 `json:"std_return"`
	Profitable        int     `json:"profitable_signals"`
	Losing            int     `json:"losing_signals"`
	MeanHoldingPeriod float64 `json:"mean_holding_period"`
}

// Result is the complete output of one backtest run. It is immutable once
// constructed; a failed run never produces a partial Result.
type Result struct {
	Signals        []SignalEvent `json:"signals"`
	Returns        []float64     `json:"returns"`
	HoldingPeriods []int         `json:"holding_periods"`
	TotalSignals   int           `json:"total_signals"`
	Stats          Stats         `json:"stats"`
	Params         Params        `json:"params"`
}
