package analytics

import (
	"cmp"
	"math"
	"slices"
)

// StdMode selects the divisor used for the standard deviation.
type StdMode int

const (
	// SampleStd divides by n-1.
	SampleStd StdMode = iota
	// PopulationStd divides by n.
	PopulationStd
)

// DefaultVolatilityTopK is how many tickers the volatility table shows.
const DefaultVolatilityTopK = 10

// StdDev returns the standard deviation of values. At least two values are
// required regardless of mode.
func StdDev(values []float64, mode StdMode) (float64, error) {
	n := len(values)
	if n < 2 {
		return 0, &InsufficientDataError{Op: "standard deviation", Have: n, Need: 2}
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	if mode == PopulationStd {
		variance /= float64(n)
	} else {
		variance /= float64(n - 1)
	}
	return math.Sqrt(variance), nil
}

// ComputeVolatility scores every ticker by the standard deviation of its
// defined daily returns and orders the result by descending score. Tickers
// with fewer than two returns have no score and are left out.
func ComputeVolatility(series []ReturnSeries, mode StdMode) []VolatilityScore {
	type result struct {
		score VolatilityScore
		ok    bool
	}
	results := perTicker(len(series), func(i int) result {
		s := series[i]
		returns := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			if p.Defined {
				returns = append(returns, p.Return)
			}
		}
		sd, err := StdDev(returns, mode)
		return result{score: VolatilityScore{Ticker: s.Ticker, Score: sd}, ok: err == nil}
	})

	out := make([]VolatilityScore, 0, len(results))
	for _, r := range results {
		if r.ok {
			out = append(out, r.score)
		}
	}
	slices.SortStableFunc(out, func(a, b VolatilityScore) int { return cmp.Compare(a.Ticker, b.Ticker) })
	slices.SortStableFunc(out, func(a, b VolatilityScore) int {
		return compareMetric(a.Score, b.Score, Descending)
	})
	return out
}

// TopVolatility keeps the k most volatile tickers of an already ranked table.
func TopVolatility(scores []VolatilityScore, k int) ([]VolatilityScore, error) {
	return TopN(scores, k, func(v VolatilityScore) float64 { return v.Score }, Descending)
}
