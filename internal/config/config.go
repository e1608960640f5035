package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quantlab/quiver/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Data     DataConfig     `mapstructure:"data"`
	Store    StoreConfig    `mapstructure:"store"`
	Backtest BacktestConfig `mapstructure:"backtest"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

// DataConfig points at the bar files and controls the cache layer.
type DataConfig struct {
	Dir         string        `mapstructure:"dir"`
	CacheMaxAge time.Duration `mapstructure:"cache_max_age"`
}

type StoreConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type BacktestConfig struct {
	HoldingPeriods []int  `mapstructure:"holding_periods"`
	PriceColumn    string `mapstructure:"price_column"`
	RollingWindow  int    `mapstructure:"rolling_window"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Data: DataConfig{
			Dir:         "data",
			CacheMaxAge: 24 * time.Hour,
		},
		Store: StoreConfig{
			Type: "localfs",
			Path: "cache",
		},
		Backtest: BacktestConfig{
			HoldingPeriods: []int{3, 5, 10, 20},
			PriceColumn:    "close",
			RollingWindow:  60,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.Store.Type {
	case "localfs":
		if c.Store.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("store path required when type is localfs"))
		}
	case "s3":
		if c.Store.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when store type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown store type %q", c.Store.Type))
	}

	if len(c.Backtest.HoldingPeriods) == 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("at least one holding period required"))
	}
	for _, hp := range c.Backtest.HoldingPeriods {
		if hp < 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("holding periods must be positive, got %d", hp))
		}
	}
	if c.Backtest.PriceColumn == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("price column cannot be empty"))
	}
	if c.Backtest.RollingWindow < 2 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("rolling window must be at least 2, got %d", c.Backtest.RollingWindow))
	}
	if c.Data.CacheMaxAge < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cache max age cannot be negative, got %s", c.Data.CacheMaxAge))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown log level %q", c.Logging.Level))
	}

	return nil
}
