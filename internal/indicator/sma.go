package indicator

import "math"

// SMA calculates Simple Moving Average.
// Output is aligned with the input: the first period-1 entries are NaN.
func SMA(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if period < 1 || len(prices) < period {
		return out
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	out[period-1] = sum / float64(period)

	// Rolling calculation
	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		out[i] = sum / float64(period)
	}

	return out
}

// EMA calculates Exponential Moving Average, seeded with the SMA of the
// first period values. Aligned with the input, NaN lead-in.
func EMA(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if period < 1 || len(prices) < period {
		return out
	}

	multiplier := 2.0 / float64(period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)
	out[period-1] = ema

	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		out[i] = ema
	}

	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
