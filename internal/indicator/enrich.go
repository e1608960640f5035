package indicator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/series"
)

// Indicator kinds accepted by Enrich.
const (
	KindSMA       = "SMA"
	KindEMA       = "EMA"
	KindRSI       = "RSI"
	KindMACD      = "MACD"
	KindBollinger = "BB"
)

// Spec selects one indicator to compute over a table column.
type Spec struct {
	Kind   string  `json:"kind"`
	Column string  `json:"column,omitempty"` // source column, defaults to close
	Period int     `json:"period,omitempty"`
	Fast   int     `json:"fast,omitempty"`
	Slow   int     `json:"slow,omitempty"`
	Signal int     `json:"signal,omitempty"`
	Dev    float64 `json:"dev,omitempty"`
}

// SMAName returns the column name for a simple moving average, e.g. SMA_5.
func SMAName(period int) string { return fmt.Sprintf("SMA_%d", period) }

// EMAName returns the column name for an exponential moving average.
func EMAName(period int) string { return fmt.Sprintf("EMA_%d", period) }

// RSIName returns the column name for a relative strength index.
func RSIName(period int) string { return fmt.Sprintf("RSI_%d", period) }

// MACDNames returns the column names for the MACD line, signal line and
// histogram, e.g. MACD_12_26_9, MACD_signal_12_26_9, MACD_hist_12_26_9.
func MACDNames(fast, slow, signal int) (macd, signalLine, hist string) {
	suffix := fmt.Sprintf("%d_%d_%d", fast, slow, signal)
	return "MACD_" + suffix, "MACD_signal_" + suffix, "MACD_hist_" + suffix
}

// BollingerNames returns the column names for the upper, middle and lower
// Bollinger bands, e.g. BB_upper_20_2.
func BollingerNames(period int, dev float64) (upper, middle, lower string) {
	suffix := fmt.Sprintf("%d_%s", period, strconv.FormatFloat(dev, 'g', -1, 64))
	return "BB_upper_" + suffix, "BB_middle_" + suffix, "BB_lower_" + suffix
}

// Names returns the column names the spec will add, in output order.
func (s Spec) Names() ([]string, error) {
	switch strings.ToUpper(s.Kind) {
	case KindSMA:
		return []string{SMAName(s.Period)}, nil
	case KindEMA:
		return []string{EMAName(s.Period)}, nil
	case KindRSI:
		return []string{RSIName(s.Period)}, nil
	case KindMACD:
		macd, signal, hist := MACDNames(s.Fast, s.Slow, s.Signal)
		return []string{macd, signal, hist}, nil
	case KindBollinger:
		upper, middle, lower := BollingerNames(s.Period, s.Dev)
		return []string{upper, middle, lower}, nil
	default:
		return nil, core.Wrapf(core.ErrInvalidInput, "unknown indicator kind %q", s.Kind)
	}
}

func (s Spec) validate() error {
	switch strings.ToUpper(s.Kind) {
	case KindSMA, KindEMA, KindRSI:
		if s.Period < 1 {
			return core.Wrapf(core.ErrInvalidInput, "%s requires period >= 1, got %d", s.Kind, s.Period)
		}
	case KindMACD:
		if s.Fast < 1 || s.Slow < 1 || s.Signal < 1 {
			return core.Wrapf(core.ErrInvalidInput, "MACD requires fast, slow and signal periods >= 1")
		}
		if s.Fast >= s.Slow {
			return core.Wrapf(core.ErrInvalidInput, "MACD fast period %d must be below slow period %d", s.Fast, s.Slow)
		}
	case KindBollinger:
		if s.Period < 1 {
			return core.Wrapf(core.ErrInvalidInput, "BB requires period >= 1, got %d", s.Period)
		}
		if s.Dev <= 0 {
			return core.Wrapf(core.ErrInvalidInput, "BB requires dev > 0, got %v", s.Dev)
		}
	default:
		return core.Wrapf(core.ErrInvalidInput, "unknown indicator kind %q", s.Kind)
	}
	return nil
}

// Enrich returns a new table with the indicator columns named by each spec
// added. The input table is not modified. Column names follow the stable
// naming contract, so conditions can address them directly.
func Enrich(tbl *series.Table, specs []Spec) (*series.Table, error) {
	out := tbl
	for _, s := range specs {
		if err := s.validate(); err != nil {
			return nil, err
		}
		column := s.Column
		if column == "" {
			column = series.ColumnClose
		}
		prices, ok := out.Column(column)
		if !ok {
			return nil, core.Wrapf(core.ErrMissingColumn, "indicator source column %q not found", column)
		}

		var err error
		switch strings.ToUpper(s.Kind) {
		case KindSMA:
			out, err = out.WithColumn(SMAName(s.Period), SMA(prices, s.Period))
		case KindEMA:
			out, err = out.WithColumn(EMAName(s.Period), EMA(prices, s.Period))
		case KindRSI:
			out, err = out.WithColumn(RSIName(s.Period), RSI(prices, s.Period))
		case KindMACD:
			macd, signal, hist := MACD(prices, s.Fast, s.Slow, s.Signal)
			macdName, signalName, histName := MACDNames(s.Fast, s.Slow, s.Signal)
			out, err = withColumns(out, []string{macdName, signalName, histName}, [][]float64{macd, signal, hist})
		case KindBollinger:
			upper, middle, lower := Bollinger(prices, s.Period, s.Dev)
			upperName, middleName, lowerName := BollingerNames(s.Period, s.Dev)
			out, err = withColumns(out, []string{upperName, middleName, lowerName}, [][]float64{upper, middle, lower})
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func withColumns(tbl *series.Table, names []string, values [][]float64) (*series.Table, error) {
	var err error
	for i, name := range names {
		tbl, err = tbl.WithColumn(name, values[i])
		if err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
