package backtest

import (
	"math"
	"sort"
)

// Aggregate reduces per-trigger returns and holding periods into summary
// statistics. Empty input yields all-zero stats. A return of exactly zero
// counts as neither win nor loss.
func Aggregate(returns []float64, holdingPeriods []int) Stats {
	if len(returns) == 0 {
		return Stats{}
	}

	var profitable, losing int
	minR, maxR := returns[0], returns[0]
	var sum float64
	for _, r := range returns {
		sum += r
		if r > 0 {
			profitable++
		} else if r < 0 {
			losing++
		}
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}
	mean := sum / float64(len(returns))

	return Stats{
		WinRate:           float64(profitable) / float64(len(returns)),
		MeanReturn:        mean,
		MinReturn:         minR,
		MaxReturn:         maxR,
		StdReturn:         populationStd(returns, mean),
		Profitable:        profitable,
		Losing:            losing,
		MeanHoldingPeriod: meanHoldingPeriod(holdingPeriods),
	}
}

// populationStd divides by N, not N-1.
func populationStd(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}

func meanHoldingPeriod(holdingPeriods []int) float64 {
	if len(holdingPeriods) == 0 {
		return 0
	}
	var sum int
	for _, h := range holdingPeriods {
		sum += h
	}
	return float64(sum) / float64(len(holdingPeriods))
}

// Distribution summarizes the shape of a return series.
type Distribution struct {
	Histogram []int     `json:"histogram"`
	BinEdges  []float64 `json:"bin_edges"`
	Mean      float64   `json:"mean"`
	Median    float64   `json:"median"`
	Std       float64   `json:"std"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Skewness  float64   `json:"skewness"`
	Kurtosis  float64   `json:"kurtosis"`
}

// Distribute bins the returns into a histogram and computes distributional
// moments. Skewness needs at least 3 observations, excess kurtosis at least
// 4; both are 0 when the standard deviation is exactly 0.
func Distribute(returns []float64, bins int) Distribution {
	if len(returns) == 0 || bins <= 0 {
		return Distribution{Histogram: []int{}, BinEdges: []float64{}}
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	minR, maxR := sorted[0], sorted[len(sorted)-1]
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))
	std := populationStd(returns, mean)

	edges := make([]float64, bins+1)
	width := (maxR - minR) / float64(bins)
	for i := range edges {
		edges[i] = minR + float64(i)*width
	}
	hist := make([]int, bins)
	for _, r := range returns {
		b := bins - 1
		if width > 0 {
			b = int((r - minR) / width)
			if b >= bins {
				b = bins - 1
			}
		}
		hist[b]++
	}

	return Distribution{
		Histogram: hist,
		BinEdges:  edges,
		Mean:      mean,
		Median:    median(sorted),
		Std:       std,
		Min:       minR,
		Max:       maxR,
		Skewness:  skewness(returns, mean, std),
		Kurtosis:  kurtosis(returns, mean, std),
	}
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// skewness is the mean of standardized cubes.
func skewness(values []float64, mean, std float64) float64 {
	if len(values) < 3 || std == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		z := (v - mean) / std
		sum += z * z * z
	}
	return sum / float64(len(values))
}

// kurtosis is the mean of standardized fourth powers minus 3 (excess).
func kurtosis(values []float64, mean, std float64) float64 {
	if len(values) < 4 || std == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		z := (v - mean) / std
		sum += z * z * z * z
	}
	return sum/float64(len(values)) - 3
}

// SharpeRatio computes the annualized risk-adjusted return of a daily return
// series against a flat risk-free rate. Zero when the deviation is zero.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	daily := riskFreeRate / 252
	excess := make([]float64, len(returns))
	var sum float64
	for i, r := range returns {
		excess[i] = r - daily
		sum += excess[i]
	}
	mean := sum / float64(len(excess))
	std := populationStd(excess, mean)
	if std == 0 {
		return 0
	}
	return math.Sqrt(252) * mean / std
}

// MaxDrawdown finds the largest peak-to-trough decline of a price series,
// returned as a negative fraction (0 for flat or empty input).
func MaxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	peak := prices[0]
	var maxDD float64
	for _, p := range prices {
		if p > peak {
			peak = p
		}
		if peak > 0 {
			dd := (p - peak) / peak
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// AnnualizedVolatility scales the population standard deviation of a daily
// return series by sqrt(252).
func AnnualizedVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))
	return populationStd(returns, mean) * math.Sqrt(252)
}
