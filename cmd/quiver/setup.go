package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/config"
	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/indicator"
	"github.com/quantlab/quiver/internal/logger"
	"github.com/quantlab/quiver/internal/provider"
	"github.com/quantlab/quiver/internal/series"
	"github.com/quantlab/quiver/internal/store"
)

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) *zap.Logger {
	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}
	return logger.Must(level, cfg.Logging.Format)
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Type {
	case "s3":
		return store.NewS3(store.S3Config{
			Bucket:    cfg.Store.S3.Bucket,
			Endpoint:  cfg.Store.S3.Endpoint,
			Region:    cfg.Store.S3.Region,
			AccessKey: cfg.Store.S3.AccessKey,
			SecretKey: cfg.Store.S3.SecretKey,
			Prefix:    cfg.Store.S3.Prefix,
		})
	default:
		return store.NewFS(cfg.Store.Path)
	}
}

func buildProvider(cfg *config.Config, blobs store.Store, log *zap.Logger) *provider.Cached {
	source := provider.NewDir(cfg.Data.Dir)
	return provider.NewCached(source, blobs, cfg.Data.CacheMaxAge, log)
}

// parseIndicators converts column-name style flags (SMA_5, RSI_14,
// MACD_12_26_9, BB_20_2, EMA_10) into indicator specs.
func parseIndicators(names []string) ([]indicator.Spec, error) {
	specs := make([]indicator.Spec, 0, len(names))
	for _, name := range names {
		parts := strings.Split(name, "_")
		bad := func() error {
			return core.Wrapf(core.ErrInvalidInput, "unrecognized indicator %q", name)
		}

		nums := make([]int, 0, len(parts)-1)
		for _, p := range parts[1:] {
			n, err := strconv.Atoi(p)
			if err != nil {
				return nil, bad()
			}
			nums = append(nums, n)
		}

		switch strings.ToUpper(parts[0]) {
		case indicator.KindSMA, indicator.KindEMA, indicator.KindRSI:
			if len(nums) != 1 {
				return nil, bad()
			}
			specs = append(specs, indicator.Spec{Kind: strings.ToUpper(parts[0]), Period: nums[0]})
		case indicator.KindMACD:
			if len(nums) != 3 {
				return nil, bad()
			}
			specs = append(specs, indicator.Spec{Kind: indicator.KindMACD, Fast: nums[0], Slow: nums[1], Signal: nums[2]})
		case indicator.KindBollinger:
			if len(nums) != 2 {
				return nil, bad()
			}
			specs = append(specs, indicator.Spec{Kind: indicator.KindBollinger, Period: nums[0], Dev: float64(nums[1])})
		default:
			return nil, bad()
		}
	}
	return specs, nil
}

// loadBars fetches, clips and enriches the bar table a run needs.
func loadBars(ctx context.Context, p provider.Provider, symbol, from, to string, indicators []string) (*series.Table, error) {
	tbl, err := p.Bars(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var start, end time.Time
	if from != "" {
		if start, err = time.Parse(time.DateOnly, from); err != nil {
			return nil, fmt.Errorf("invalid from date (expected YYYY-MM-DD): %w", err)
		}
	}
	if to != "" {
		if end, err = time.Parse(time.DateOnly, to); err != nil {
			return nil, fmt.Errorf("invalid to date (expected YYYY-MM-DD): %w", err)
		}
	}
	tbl = tbl.Between(start, end)
	if tbl.Len() == 0 {
		return nil, core.Wrapf(core.ErrNoData, "no bars for %s in requested range", symbol)
	}

	if len(indicators) > 0 {
		specs, err := parseIndicators(indicators)
		if err != nil {
			return nil, err
		}
		if tbl, err = indicator.Enrich(tbl, specs); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
