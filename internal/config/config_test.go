package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090

data:
  dir: "/tmp/quiver/bars"
  cache_max_age: 6h

store:
  type: localfs
  path: "/tmp/quiver/cache"

backtest:
  holding_periods: [5, 10]
  price_column: close
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Store.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Store.Type)
	}
	if cfg.Data.CacheMaxAge != 6*time.Hour {
		t.Errorf("expected 6h cache max age, got %s", cfg.Data.CacheMaxAge)
	}
	if len(cfg.Backtest.HoldingPeriods) != 2 || cfg.Backtest.HoldingPeriods[0] != 5 {
		t.Errorf("unexpected holding periods: %v", cfg.Backtest.HoldingPeriods)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("expected default metrics path, got %s", cfg.Metrics.Path)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Backtest.PriceColumn != "close" {
		t.Errorf("expected default price column close, got %s", cfg.Backtest.PriceColumn)
	}
	if len(cfg.Backtest.HoldingPeriods) != 4 {
		t.Errorf("expected 4 default holding periods, got %v", cfg.Backtest.HoldingPeriods)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return Defaults() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"invalid port - zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown store type", func(c *Config) { c.Store.Type = "gcs" }, true},
		{"localfs without path", func(c *Config) { c.Store.Path = "" }, true},
		{"s3 without bucket", func(c *Config) { c.Store.Type = "s3" }, true},
		{"no holding periods", func(c *Config) { c.Backtest.HoldingPeriods = nil }, true},
		{"negative holding period", func(c *Config) { c.Backtest.HoldingPeriods = []int{5, -1} }, true},
		{"empty price column", func(c *Config) { c.Backtest.PriceColumn = "" }, true},
		{"rolling window too small", func(c *Config) { c.Backtest.RollingWindow = 1 }, true},
		{"negative cache max age", func(c *Config) { c.Data.CacheMaxAge = -time.Hour }, true},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
