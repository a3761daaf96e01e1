package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// CorrelationMatrix holds pairwise Pearson correlations of daily price
// changes. Values[i][j] is the correlation of Tickers[i] and Tickers[j].
type CorrelationMatrix struct {
	Tickers []string
	Values  [][]float64
	// Dates is the shared date axis the correlations were computed on.
	Dates []time.Time
}

// At looks up the correlation of two tickers.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := slices.Index(m.Tickers, a), slices.Index(m.Tickers, b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// ComputeCorrelation pivots closes into a date x ticker matrix, converts
// each column to percentage changes and correlates the columns. Only dates
// where every ticker has a change are kept, so all pairs share one date
// axis. A column without variance yields NaN against every other column;
// the diagonal is always 1.
func ComputeCorrelation(series []TimeSeries) (*CorrelationMatrix, error) {
	if len(series) < 2 {
		return nil, &InsufficientDataError{Op: "correlation", Have: len(series), Need: 2}
	}
	cols := slices.Clone(series)
	slices.SortStableFunc(cols, func(a, b TimeSeries) int { return cmp.Compare(a.Ticker, b.Ticker) })

	seen := make(map[time.Time]struct{})
	for _, s := range cols {
		for _, p := range s.Points {
			seen[civilDate(p.Date)] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, time.Time.Compare)
	row := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		row[d] = i
	}

	prices := make([][]float64, len(cols))
	for c, s := range cols {
		prices[c] = make([]float64, len(dates))
		for r := range prices[c] {
			prices[c][r] = math.NaN()
		}
		for _, p := range s.Points {
			prices[c][row[civilDate(p.Date)]] = p.Close
		}
	}

	// A change is undefined when either neighbour cell is missing; NaN
	// propagates through the division.
	var keep []int
	changes := make([][]float64, len(cols))
	for r := 1; r < len(dates); r++ {
		complete := true
		for c := range cols {
			if math.IsNaN(prices[c][r]/prices[c][r-1] - 1) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		keep = append(keep, r)
		for c := range cols {
			changes[c] = append(changes[c], prices[c][r]/prices[c][r-1]-1)
		}
	}
	if len(keep) < 2 {
		return nil, &InsufficientDataError{Op: "correlation", Have: len(keep), Need: 2}
	}

	m := &CorrelationMatrix{
		Tickers: make([]string, len(cols)),
		Values:  make([][]float64, len(cols)),
		Dates:   make([]time.Time, len(keep)),
	}
	for i, r := range keep {
		m.Dates[i] = dates[r]
	}
	for i, s := range cols {
		m.Tickers[i] = s.Ticker
		m.Values[i] = make([]float64, len(cols))
		m.Values[i][i] = 1
	}
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			r := pearson(changes[i], changes[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pearson(x, y []float64) float64 {
	n := float64(len(x))
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= n
	my /= n

	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return max(-1, min(1, sxy/math.Sqrt(sxx*syy)))
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
