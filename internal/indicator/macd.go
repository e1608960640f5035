package indicator

import "math"

// MACD calculates the MACD line (fast EMA minus slow EMA), its signal line
// (EMA of the MACD line) and the histogram (MACD minus signal). All three
// outputs are aligned with the input; the signal and histogram become valid
// at index slow+signal-2.
func MACD(prices []float64, fast, slow, signal int) (macd, signalLine, hist []float64) {
	n := len(prices)
	macd = nanSlice(n)
	signalLine = nanSlice(n)
	hist = nanSlice(n)
	if fast < 1 || slow < 1 || signal < 1 || fast >= slow || n < slow {
		return macd, signalLine, hist
	}

	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)
	for i := slow - 1; i < n; i++ {
		macd[i] = fastEMA[i] - slowEMA[i]
	}

	// The signal line is an EMA over the valid portion of the MACD line,
	// seeded with a simple average of its first signal values.
	start := slow + signal - 2
	if n <= start {
		return macd, signalLine, hist
	}
	var sum float64
	for i := slow - 1; i <= start; i++ {
		sum += macd[i]
	}
	ema := sum / float64(signal)
	signalLine[start] = ema
	hist[start] = macd[start] - ema

	multiplier := 2.0 / float64(signal+1)
	for i := start + 1; i < n; i++ {
		ema = (macd[i]-ema)*multiplier + ema
		signalLine[i] = ema
		hist[i] = macd[i] - ema
	}

	return macd, signalLine, hist
}

// Bollinger calculates Bollinger bands: a middle SMA plus upper and lower
// bands offset by dev population standard deviations of the same window.
func Bollinger(prices []float64, period int, dev float64) (upper, middle, lower []float64) {
	n := len(prices)
	upper = nanSlice(n)
	lower = nanSlice(n)
	middle = SMA(prices, period)
	if period < 1 || n < period {
		return upper, middle, lower
	}

	for i := period - 1; i < n; i++ {
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := prices[j] - middle[i]
			variance += d * d
		}
		std := math.Sqrt(variance / float64(period))
		upper[i] = middle[i] + dev*std
		lower[i] = middle[i] - dev*std
	}

	return upper, middle, lower
}
