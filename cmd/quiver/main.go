package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "quiver",
	Short: "Quiver - condition-driven backtesting for daily bar data",
	Long: `Quiver evaluates entry conditions over historical bar data and measures
the forward returns of the signals they produce. Conditions are written as
expressions over table columns, e.g. "RSI_14 < 30 AND close > 10".`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
