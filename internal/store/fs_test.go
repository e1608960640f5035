// internal/store/fs_test.go
package store

import (
	"context"
	"errors"
	"testing"

	"github.com/quantlab/quiver/internal/core"
)

func TestFS_ImplementsStore(t *testing.T) {
	var _ Store = (*FS)(nil)
}

func TestFS_PutGet(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	ctx := context.Background()
	data := []byte("date,open,high,low,close,volume\n")

	if err := fs.Put(ctx, BarsKey("SH600000"), data); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := fs.Get(ctx, BarsKey("SH600000"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestFS_GetMissing(t *testing.T) {
	fs, _ := NewFS(t.TempDir())

	_, err := fs.Get(context.Background(), "bars/missing.csv")
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("err = %v, want NO_DATA", err)
	}
}

func TestFS_Stat(t *testing.T) {
	fs, _ := NewFS(t.TempDir())
	ctx := context.Background()

	info, err := fs.Stat(ctx, "nonexistent.json")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Exists {
		t.Error("expected Exists=false for missing blob")
	}

	fs.Put(ctx, "exists.json", []byte("{}"))
	info, err = fs.Stat(ctx, "exists.json")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.Exists {
		t.Error("expected Exists=true")
	}
	if info.Size != 2 {
		t.Errorf("Size = %d, want 2", info.Size)
	}
	if info.ModTime.IsZero() {
		t.Error("ModTime should be set")
	}
}

func TestFS_Keys(t *testing.T) {
	fs, _ := NewFS(t.TempDir())
	ctx := context.Background()

	fs.Put(ctx, ResultKey("SH600000", "a"), []byte("{}"))
	fs.Put(ctx, ResultKey("SH600000", "b"), []byte("{}"))
	fs.Put(ctx, ResultKey("SZ000001", "c"), []byte("{}"))

	keys, err := fs.Keys(ctx, "results/SH600000")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %d: %v", len(keys), keys)
	}

	keys, err = fs.Keys(ctx, "results/unknown")
	if err != nil {
		t.Fatalf("Keys on missing prefix: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}

func TestFS_Remove(t *testing.T) {
	fs, _ := NewFS(t.TempDir())
	ctx := context.Background()

	fs.Put(ctx, "gone.json", []byte("{}"))
	if err := fs.Remove(ctx, "gone.json"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	info, _ := fs.Stat(ctx, "gone.json")
	if info.Exists {
		t.Error("blob should be removed")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	fs, _ := NewFS(t.TempDir())
	ctx := context.Background()

	type payload struct {
		Symbol string  `json:"symbol"`
		Rate   float64 `json:"rate"`
	}
	in := payload{Symbol: "SH600000", Rate: 0.62}

	if err := PutJSON(ctx, fs, "results/r.json", in); err != nil {
		t.Fatalf("PutJSON: %v", err)
	}

	var out payload
	if err := GetJSON(ctx, fs, "results/r.json", &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestGetJSON_Missing(t *testing.T) {
	fs, _ := NewFS(t.TempDir())

	var v struct{}
	err := GetJSON(context.Background(), fs, "results/none.json", &v)
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("err = %v, want NO_DATA", err)
	}
}
