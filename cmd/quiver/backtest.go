package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/backtest"
	"github.com/quantlab/quiver/internal/condition"
	"github.com/quantlab/quiver/internal/store"
)

var (
	backtestSymbol     string
	backtestFrom       string
	backtestTo         string
	backtestHold       int
	backtestPriceCol   string
	backtestIndicators []string
	backtestRolling    int
	backtestArchive    bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [condition]",
	Short: "Run a condition against historical bars",
	Long: `Evaluate a condition expression over a symbol's bars, simulate buying on
every signal and holding for a fixed number of calendar days, and print the
forward-return statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (required)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD")
	backtestCmd.Flags().IntVar(&backtestHold, "hold", 5, "Holding period in calendar days")
	backtestCmd.Flags().StringVar(&backtestPriceCol, "price-column", "", "Price column (default from config)")
	backtestCmd.Flags().StringSliceVar(&backtestIndicators, "indicator", nil, "Indicator columns to compute, e.g. SMA_5,RSI_14,MACD_12_26_9")
	backtestCmd.Flags().IntVar(&backtestRolling, "rolling", 0, "Also report rolling performance over windows of this many rows")
	backtestCmd.Flags().BoolVar(&backtestArchive, "archive", false, "Archive the result JSON to the blob store")

	backtestCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := zap.NewNop()
	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	log = buildLogger(cfg)
	defer log.Sync()

	cond, err := condition.Parse(args[0])
	if err != nil {
		return err
	}

	blobs, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}

	ctx := context.Background()
	bars := buildProvider(cfg, blobs, log)
	tbl, err := loadBars(ctx, bars, backtestSymbol, backtestFrom, backtestTo, backtestIndicators)
	if err != nil {
		return err
	}

	priceColumn := backtestPriceCol
	if priceColumn == "" {
		priceColumn = cfg.Backtest.PriceColumn
	}

	runner := backtest.NewRunner(log)
	result, err := runner.Run(ctx, tbl, cond, backtestHold, priceColumn)
	if err != nil {
		return err
	}

	fmt.Print(backtest.FormatReport(result))

	if backtestRolling > 0 {
		windows, err := runner.RollingPerformance(ctx, tbl, cond, backtestRolling, backtestHold, priceColumn)
		if err != nil {
			return err
		}
		fmt.Printf("\nRolling performance (%d-row windows):\n", backtestRolling)
		for _, wp := range windows {
			fmt.Printf("  %s  win rate %6.2f%%  mean %+.4f  signals %d\n",
				wp.Date.Format("2006-01-02"), wp.WinRate*100, wp.MeanReturn, wp.TotalSignals)
		}
	}

	if backtestArchive {
		key := store.ResultKey(backtestSymbol, uuid.NewString())
		if err := store.PutJSON(ctx, blobs, key, result); err != nil {
			return fmt.Errorf("archiving result: %w", err)
		}
		fmt.Printf("\nResult archived to %s\n", key)
	}

	return nil
}
