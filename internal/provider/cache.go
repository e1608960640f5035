// internal/provider/cache.go
package provider

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/metrics"
	"github.com/quantlab/quiver/internal/series"
	"github.com/quantlab/quiver/internal/store"
)

// Cached wraps a source provider with a blob-store cache. A cache entry is
// served as long as it is younger than maxAge; otherwise the source is hit
// and the entry overwritten.
type Cached struct {
	source Provider
	blobs  store.Store
	maxAge time.Duration
	logger *zap.Logger
	reg    *metrics.Registry
	now    func() time.Time
}

// NewCached creates a caching provider. A maxAge of zero disables freshness
// checks and serves any existing entry.
func NewCached(source Provider, blobs store.Store, maxAge time.Duration, logger ...*zap.Logger) *Cached {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Cached{
		source: source,
		blobs:  blobs,
		maxAge: maxAge,
		logger: l,
		now:    time.Now,
	}
}

// WithMetrics attaches a metrics registry recording cache lookup outcomes.
func (c *Cached) WithMetrics(reg *metrics.Registry) *Cached {
	c.reg = reg
	return c
}

func (c *Cached) record(outcome string) {
	if c.reg != nil {
		c.reg.RecordCacheLookup(outcome)
	}
}

func (c *Cached) Bars(ctx context.Context, symbol string) (*series.Table, error) {
	key := store.BarsKey(symbol)

	if tbl := c.fromCache(ctx, key, symbol); tbl != nil {
		return tbl, nil
	}

	tbl, err := c.source.Bars(ctx, symbol)
	if err != nil {
		return nil, err
	}

	data, err := EncodeCSV(tbl)
	if err != nil {
		c.logger.Warn("encoding bars for cache failed", zap.String("symbol", symbol), zap.Error(err))
		return tbl, nil
	}
	if err := c.blobs.Put(ctx, key, data); err != nil {
		// Cache failures never fail the load.
		c.logger.Warn("writing bar cache failed", zap.String("symbol", symbol), zap.Error(err))
	}
	return tbl, nil
}

func (c *Cached) fromCache(ctx context.Context, key, symbol string) *series.Table {
	info, err := c.blobs.Stat(ctx, key)
	if err != nil || !info.Exists {
		c.record("miss")
		return nil
	}
	if c.maxAge > 0 && c.now().Sub(info.ModTime) > c.maxAge {
		c.record("stale")
		return nil
	}

	data, err := c.blobs.Get(ctx, key)
	if err != nil {
		c.logger.Warn("reading bar cache failed", zap.String("symbol", symbol), zap.Error(err))
		c.record("error")
		return nil
	}
	tbl, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		c.logger.Warn("corrupt bar cache entry ignored", zap.String("symbol", symbol), zap.Error(err))
		c.record("error")
		return nil
	}
	c.logger.Info("bars loaded from cache", zap.String("symbol", symbol), zap.Int("rows", tbl.Len()))
	c.record("hit")
	return tbl
}

// Invalidate drops the cached entry for a symbol.
func (c *Cached) Invalidate(ctx context.Context, symbol string) error {
	return c.blobs.Remove(ctx, store.BarsKey(symbol))
}
