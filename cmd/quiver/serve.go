package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/api"
	"github.com/quantlab/quiver/internal/backtest"
	"github.com/quantlab/quiver/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quiver HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := zap.NewNop()
	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	log = buildLogger(cfg)
	defer log.Sync()

	blobs, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	deps := api.Dependencies{
		Runner:         backtest.NewRunner(log),
		Provider:       buildProvider(cfg, blobs, log).WithMetrics(reg),
		Archive:        blobs,
		Metrics:        reg,
		HoldingPeriods: cfg.Backtest.HoldingPeriods,
		PriceColumn:    cfg.Backtest.PriceColumn,
	}

	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: cfg.Metrics.Path,
		JobTTL:      time.Duration(cfg.Server.JobTTLHours) * time.Hour,
		MaxJobs:     cfg.Server.MaxJobs,
	}, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Info("starting quiver server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down quiver server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
