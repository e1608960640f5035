// internal/provider/provider.go
package provider

import (
	"context"

	"github.com/quantlab/quiver/internal/series"
)

// Provider supplies daily bar tables keyed by symbol.
type Provider interface {
	// Bars returns all available bars for the symbol, oldest first
	Bars(ctx context.Context, symbol string) (*series.Table, error)
}

// Func adapts a function to the Provider interface.
type Func func(ctx context.Context, symbol string) (*series.Table, error)

func (f Func) Bars(ctx context.Context, symbol string) (*series.Table, error) {
	return f(ctx, symbol)
}
