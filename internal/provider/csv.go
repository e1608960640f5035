// internal/provider/csv.go
package provider

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/series"
)

var dateLayouts = []string{"2006-01-02", "20060102"}

// ParseCSV reads bar data with a header row into a table. The first column
// must be date; every other header names a numeric column
// (date,open,high,low,close,volume for standard bar files).
func ParseCSV(r io.Reader) (*series.Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, core.Wrapf(core.ErrInvalidInput, "reading csv: %v", err)
	}
	if len(records) < 1 {
		return nil, core.Wrapf(core.ErrNoData, "csv has no header row")
	}

	header := records[0]
	if len(header) < 2 || header[0] != "date" {
		return nil, core.Wrapf(core.ErrInvalidInput, "csv header must start with date, got %v", header)
	}
	rows := records[1:]
	if len(rows) == 0 {
		return nil, core.Wrapf(core.ErrNoData, "csv has no data rows")
	}

	timestamps := make([]time.Time, len(rows))
	columns := make(map[string][]float64, len(header)-1)
	for _, name := range header[1:] {
		columns[name] = make([]float64, len(rows))
	}

	for i, row := range rows {
		if len(row) != len(header) {
			return nil, core.Wrapf(core.ErrInvalidInput, "row %d has %d fields, header has %d", i+2, len(row), len(header))
		}
		ts, err := parseDate(row[0])
		if err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "row %d: bad date %q", i+2, row[0])
		}
		timestamps[i] = ts
		for j, name := range header[1:] {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, core.Wrapf(core.ErrInvalidInput, "row %d, column %s: bad value %q", i+2, name, row[j+1])
			}
			columns[name][i] = v
		}
	}

	return series.New(timestamps, columns)
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var ts time.Time
		ts, err = time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// EncodeCSV renders a table back into the CSV form ParseCSV accepts, with
// columns in the table's name order.
func EncodeCSV(tbl *series.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	names := tbl.Columns()
	header := append([]string{"date"}, names...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	row := make([]string, len(header))
	for i := 0; i < tbl.Len(); i++ {
		row[0] = tbl.Timestamp(i).Format("2006-01-02")
		for j, name := range names {
			v, _ := tbl.Value(name, i)
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// Dir serves bars from <root>/<symbol>.csv files.
type Dir struct {
	root string
}

// NewDir creates a provider over a directory of per-symbol CSV files.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) Bars(ctx context.Context, symbol string) (*series.Table, error) {
	path := filepath.Join(d.root, symbol+".csv")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, core.Wrapf(core.ErrNoData, "no bar file for symbol %s", symbol)
	}
	if err != nil {
		return nil, core.Wrapf(core.ErrProviderFailed, "opening %s: %v", path, err)
	}
	defer f.Close()

	tbl, err := ParseCSV(f)
	if err != nil {
		return nil, core.Wrapf(core.ErrProviderFailed, "parsing %s: %v", path, err)
	}
	return tbl, nil
}
