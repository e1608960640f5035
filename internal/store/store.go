// internal/store/store.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantlab/quiver/internal/core"
)

// Store is a flat blob namespace backing the bar cache and the result
// archive. Keys use forward slashes regardless of backend.
type Store interface {
	// Put stores data under the given key, overwriting any existing blob
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the blob under the given key
	Get(ctx context.Context, key string) ([]byte, error)

	// Keys returns all keys matching the prefix
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Remove deletes the blob under the given key
	Remove(ctx context.Context, key string) error

	// Stat reports whether the key exists and when it was last written
	Stat(ctx context.Context, key string) (Info, error)
}

// Info describes a stored blob.
type Info struct {
	Exists  bool
	Size    int64
	ModTime time.Time
}

// BarsKey returns the cache key for a symbol's bar data.
func BarsKey(symbol string) string {
	return fmt.Sprintf("bars/%s.csv", symbol)
}

// ResultKey returns the archive key for a backtest result.
func ResultKey(symbol, id string) string {
	return fmt.Sprintf("results/%s/%s.json", symbol, id)
}

// PutJSON marshals v and stores it under the given key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return core.Wrapf(core.ErrInvalidInput, "encoding %s: %v", key, err)
	}
	return s.Put(ctx, key, data)
}

// GetJSON retrieves the blob under the given key and unmarshals it into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return core.Wrapf(core.ErrInvalidInput, "decoding %s: %v", key, err)
	}
	return nil
}
