// internal/provider/provider_test.go
package provider

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/metrics"
	"github.com/quantlab/quiver/internal/series"
	"github.com/quantlab/quiver/internal/store"
)

const sampleCSV = `date,open,high,low,close,volume
2024-01-01,100,101,99,100.5,10000
2024-01-02,100.5,103,100,102,12000
2024-01-03,102,102.5,100.5,101,9000
`

func TestParseCSV(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
	for _, name := range []string{"open", "high", "low", "close", "volume"} {
		if !tbl.HasColumn(name) {
			t.Errorf("missing column %q", name)
		}
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !tbl.Timestamp(1).Equal(want) {
		t.Errorf("Timestamp(1) = %s, want %s", tbl.Timestamp(1), want)
	}
	if v, _ := tbl.Value("close", 1); v != 102 {
		t.Errorf("close[1] = %v, want 102", v)
	}
}

func TestParseCSV_CompactDates(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("date,close\n20240101,100\n20240102,101\n"))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestParseCSV_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  *core.Error
	}{
		{"empty", "", core.ErrNoData},
		{"header only", "date,close\n", core.ErrNoData},
		{"wrong first column", "ts,close\n2024-01-01,1\n", core.ErrInvalidInput},
		{"bad date", "date,close\nyesterday,1\n", core.ErrInvalidInput},
		{"bad value", "date,close\n2024-01-01,abc\n", core.ErrInvalidInput},
		{"descending dates", "date,close\n2024-01-02,1\n2024-01-01,2\n", core.ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tc.input))
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want code %s", err, tc.want.Code)
			}
		})
	}
}

func TestEncodeCSV_RoundTrip(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	data, err := EncodeCSV(tbl)
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	back, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	if back.Len() != tbl.Len() {
		t.Fatalf("row count changed: %d != %d", back.Len(), tbl.Len())
	}
	for _, name := range tbl.Columns() {
		for i := 0; i < tbl.Len(); i++ {
			a, _ := tbl.Value(name, i)
			b, _ := back.Value(name, i)
			if a != b {
				t.Errorf("%s[%d]: %v != %v", name, i, a, b)
			}
		}
	}
}

func TestDir_Bars(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "SH600000.csv"), []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDir(root)
	tbl, err := d.Bars(context.Background(), "SH600000")
	if err != nil {
		t.Fatalf("Bars: %v", err)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tbl.Len())
	}

	_, err = d.Bars(context.Background(), "SH600001")
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("missing symbol: err = %v, want NO_DATA", err)
	}
}

// countingSource tracks how often the underlying provider is hit.
type countingSource struct {
	calls int
	tbl   *series.Table
	err   error
}

func (c *countingSource) Bars(ctx context.Context, symbol string) (*series.Table, error) {
	c.calls++
	return c.tbl, c.err
}

func TestCached_ServesFreshEntry(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	blobs, _ := store.NewFS(t.TempDir())
	source := &countingSource{tbl: tbl}
	cached := NewCached(source, blobs, time.Hour)

	ctx := context.Background()
	first, err := cached.Bars(ctx, "SH600000")
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := cached.Bars(ctx, "SH600000")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	if source.calls != 1 {
		t.Errorf("source hit %d times, want 1", source.calls)
	}
	if first.Len() != second.Len() {
		t.Errorf("cached table differs: %d != %d rows", first.Len(), second.Len())
	}
}

func TestCached_RefetchesStaleEntry(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	blobs, _ := store.NewFS(t.TempDir())
	source := &countingSource{tbl: tbl}
	cached := NewCached(source, blobs, time.Hour)

	ctx := context.Background()
	if _, err := cached.Bars(ctx, "SH600000"); err != nil {
		t.Fatal(err)
	}

	// Age the entry past maxAge.
	cached.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := cached.Bars(ctx, "SH600000"); err != nil {
		t.Fatal(err)
	}

	if source.calls != 2 {
		t.Errorf("source hit %d times, want 2 after expiry", source.calls)
	}
}

func TestCached_RecordsLookupOutcomes(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	blobs, _ := store.NewFS(t.TempDir())
	source := &countingSource{tbl: tbl}
	reg := metrics.NewRegistry()
	cached := NewCached(source, blobs, time.Hour).WithMetrics(reg)

	ctx := context.Background()
	cached.Bars(ctx, "SH600000") // miss
	cached.Bars(ctx, "SH600000") // hit

	if got := cacheLookups(t, reg, "miss"); got != 1 {
		t.Errorf("miss count = %v, want 1", got)
	}
	if got := cacheLookups(t, reg, "hit"); got != 1 {
		t.Errorf("hit count = %v, want 1", got)
	}
}

func cacheLookups(t *testing.T, reg *metrics.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "quiver_bar_cache_lookups_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestCached_SourceFailurePropagates(t *testing.T) {
	blobs, _ := store.NewFS(t.TempDir())
	source := &countingSource{err: core.Wrapf(core.ErrProviderFailed, "upstream down")}
	cached := NewCached(source, blobs, time.Hour)

	_, err := cached.Bars(context.Background(), "SH600000")
	if !errors.Is(err, core.ErrProviderFailed) {
		t.Errorf("err = %v, want PROVIDER_FAILED", err)
	}
}

func TestCached_Invalidate(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	blobs, _ := store.NewFS(t.TempDir())
	source := &countingSource{tbl: tbl}
	cached := NewCached(source, blobs, time.Hour)

	ctx := context.Background()
	cached.Bars(ctx, "SH600000")
	if err := cached.Invalidate(ctx, "SH600000"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	cached.Bars(ctx, "SH600000")

	if source.calls != 2 {
		t.Errorf("source hit %d times, want 2 after invalidation", source.calls)
	}
}
