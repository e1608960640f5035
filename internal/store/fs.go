// internal/store/fs.go
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantlab/quiver/internal/core"
)

// FS implements Store on the local filesystem.
type FS struct {
	basePath string
}

// NewFS creates a filesystem store rooted at basePath.
func NewFS(basePath string) (*FS, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating base path: %w", err)
	}
	return &FS{basePath: basePath}, nil
}

func (f *FS) fullPath(key string) string {
	return filepath.Join(f.basePath, filepath.FromSlash(key))
}

func (f *FS) Put(ctx context.Context, key string, data []byte) error {
	fullPath := f.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("creating directories: %w", err)
	}
	return os.WriteFile(fullPath, data, 0644)
}

func (f *FS) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.fullPath(key))
	if os.IsNotExist(err) {
		return nil, core.Wrapf(core.ErrNoData, "blob %s not found", key)
	}
	return data, err
}

func (f *FS) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	searchPath := f.fullPath(prefix)

	err := filepath.Walk(searchPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, _ := filepath.Rel(f.basePath, path)
			keys = append(keys, filepath.ToSlash(rel))
		}
		return nil
	})

	if os.IsNotExist(err) {
		return []string{}, nil
	}
	return keys, err
}

func (f *FS) Remove(ctx context.Context, key string) error {
	return os.Remove(f.fullPath(key))
}

func (f *FS) Stat(ctx context.Context, key string) (Info, error) {
	fi, err := os.Stat(f.fullPath(key))
	if os.IsNotExist(err) {
		return Info{}, nil
	}
	if err != nil {
		return Info{}, err
	}
	return Info{Exists: true, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}
