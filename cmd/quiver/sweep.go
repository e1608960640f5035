package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/backtest"
	"github.com/quantlab/quiver/internal/condition"
)

var (
	sweepSymbol     string
	sweepFrom       string
	sweepTo         string
	sweepPeriods    []int
	sweepPriceCol   string
	sweepIndicators []string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [condition]...",
	Short: "Compare conditions across holding periods",
	Long: `Run every given condition against every holding period and print a
comparison table sorted by win rate. Failing combinations are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepSymbol, "symbol", "", "Symbol to backtest (required)")
	sweepCmd.Flags().StringVar(&sweepFrom, "from", "", "Start date YYYY-MM-DD")
	sweepCmd.Flags().StringVar(&sweepTo, "to", "", "End date YYYY-MM-DD")
	sweepCmd.Flags().IntSliceVar(&sweepPeriods, "periods", nil, "Holding periods in days (default from config)")
	sweepCmd.Flags().StringVar(&sweepPriceCol, "price-column", "", "Price column (default from config)")
	sweepCmd.Flags().StringSliceVar(&sweepIndicators, "indicator", nil, "Indicator columns to compute, e.g. SMA_5,RSI_14")

	sweepCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	log := zap.NewNop()
	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	log = buildLogger(cfg)
	defer log.Sync()

	conditions := make([]condition.Condition, 0, len(args))
	for _, expr := range args {
		cond, err := condition.Parse(expr)
		if err != nil {
			return err
		}
		conditions = append(conditions, cond)
	}

	blobs, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}

	ctx := context.Background()
	bars := buildProvider(cfg, blobs, log)
	tbl, err := loadBars(ctx, bars, sweepSymbol, sweepFrom, sweepTo, sweepIndicators)
	if err != nil {
		return err
	}

	periods := sweepPeriods
	if len(periods) == 0 {
		periods = cfg.Backtest.HoldingPeriods
	}
	priceColumn := sweepPriceCol
	if priceColumn == "" {
		priceColumn = cfg.Backtest.PriceColumn
	}

	runner := backtest.NewRunner(log)
	results := runner.RunMultiple(ctx, tbl, conditions, periods, priceColumn)
	if len(results) == 0 {
		return fmt.Errorf("no successful runs")
	}

	fmt.Print(backtest.FormatComparison(backtest.Compare(results)))
	return nil
}
