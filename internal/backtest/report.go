package backtest

import (
	"fmt"
	"sort"
	"strings"
)

// FormatReport renders a result as analyst-facing text. Pure formatting over
// an immutable Result; nothing here affects the engine's statistics.
func FormatReport(result *Result) string {
	var b strings.Builder

	b.WriteString("## Backtest Report\n\n")
	fmt.Fprintf(&b, "Condition:      %s\n", result.Params.Condition)
	fmt.Fprintf(&b, "Holding period: %d days\n", result.Params.HoldingPeriod)
	fmt.Fprintf(&b, "Price column:   %s\n", result.Params.PriceColumn)
	fmt.Fprintf(&b, "Data period:    %s\n\n", result.Params.DateRange)

	if result.TotalSignals == 0 {
		b.WriteString("No signals found for this condition.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Total signals:      %d\n", result.TotalSignals)
	fmt.Fprintf(&b, "Profitable signals: %d\n", result.Stats.Profitable)
	fmt.Fprintf(&b, "Losing signals:     %d\n", result.Stats.Losing)
	fmt.Fprintf(&b, "Mean holding:       %.1f days\n\n", result.Stats.MeanHoldingPeriod)

	fmt.Fprintf(&b, "Win rate:    %.2f%%\n", result.Stats.WinRate*100)
	fmt.Fprintf(&b, "Mean return: %.2f%%\n", result.Stats.MeanReturn*100)
	fmt.Fprintf(&b, "Max return:  %.2f%%\n", result.Stats.MaxReturn*100)
	fmt.Fprintf(&b, "Min return:  %.2f%%\n", result.Stats.MinReturn*100)
	fmt.Fprintf(&b, "Std return:  %.2f%%\n", result.Stats.StdReturn*100)

	return b.String()
}

// ComparisonRow is one result's summary in a sweep comparison.
type ComparisonRow struct {
	Condition     string  `json:"condition"`
	HoldingPeriod int     `json:"holding_period_days"`
	TotalSignals  int     `json:"total_signals"`
	WinRate       float64 `json:"win_rate"`
	MeanReturn    float64 `json:"mean_return"`
	MaxReturn     float64 `json:"max_return"`
	MinReturn     float64 `json:"min_return"`
}

// Compare summarizes sweep results sorted by win rate, best first.
func Compare(results []*Result) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(results))
	for _, result := range results {
		rows = append(rows, ComparisonRow{
			Condition:     result.Params.Condition,
			HoldingPeriod: result.Params.HoldingPeriod,
			TotalSignals:  result.TotalSignals,
			WinRate:       result.Stats.WinRate,
			MeanReturn:    result.Stats.MeanReturn,
			MaxReturn:     result.Stats.MaxReturn,
			MinReturn:     result.Stats.MinReturn,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WinRate > rows[j].WinRate
	})
	return rows
}

// FormatComparison renders comparison rows as a fixed-width table.
func FormatComparison(rows []ComparisonRow) string {
	if len(rows) == 0 {
		return "no results\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-48s %8s %8s %9s %9s\n", "CONDITION", "HOLD", "SIGNALS", "WIN RATE", "MEAN RET")
	for _, row := range rows {
		cond := row.Condition
		if len(cond) > 48 {
			cond = cond[:45] + "..."
		}
		fmt.Fprintf(&b, "%-48s %7dd %8d %8.2f%% %8.2f%%\n",
			cond, row.HoldingPeriod, row.TotalSignals, row.WinRate*100, row.MeanReturn*100)
	}
	return b.String()
}
