package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/quiver/internal/indicator"
)

func TestParseIndicators(t *testing.T) {
	specs, err := parseIndicators([]string{"SMA_5", "ema_10", "RSI_14", "MACD_12_26_9", "BB_20_2"})
	require.NoError(t, err)
	require.Len(t, specs, 5)

	assert.Equal(t, indicator.Spec{Kind: "SMA", Period: 5}, specs[0])
	assert.Equal(t, indicator.Spec{Kind: "EMA", Period: 10}, specs[1])
	assert.Equal(t, indicator.Spec{Kind: "RSI", Period: 14}, specs[2])
	assert.Equal(t, indicator.Spec{Kind: "MACD", Fast: 12, Slow: 26, Signal: 9}, specs[3])
	assert.Equal(t, indicator.Spec{Kind: "BB", Period: 20, Dev: 2}, specs[4])
}

func TestParseIndicators_Invalid(t *testing.T) {
	for _, name := range []string{"WMA_5", "SMA", "SMA_x", "MACD_12_26", "BB_20"} {
		_, err := parseIndicators([]string{name})
		assert.Error(t, err, "expected %q to be rejected", name)
	}
}

func TestParseIndicators_NamesMatchColumns(t *testing.T) {
	specs, err := parseIndicators([]string{"MACD_12_26_9"})
	require.NoError(t, err)

	names, err := specs[0].Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"MACD_12_26_9", "MACD_signal_12_26_9", "MACD_hist_12_26_9"}, names)
}
