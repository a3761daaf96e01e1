package analytics

import (
	"cmp"
	"slices"
)

// ComputeDailyReturns attaches close[t]/close[t-1]-1 to every point of the
// series. The points are sorted ascending by date on a copy; the input is
// left untouched. The first point has no return.
func ComputeDailyReturns(series TimeSeries) ReturnSeries {
	pts := slices.Clone(series.Points)
	slices.SortStableFunc(pts, func(a, b PricePoint) int { return a.Date.Compare(b.Date) })

	out := ReturnSeries{Ticker: series.Ticker, Points: make([]ReturnPoint, len(pts))}
	for i, p := range pts {
		rp := ReturnPoint{Date: p.Date, Close: p.Close}
		if i > 0 {
			rp.Return = p.Close/pts[i-1].Close - 1
			rp.Defined = true
		}
		out.Points[i] = rp
	}
	return out
}

// ComputeDailyReturnsAll runs ComputeDailyReturns for every ticker.
func ComputeDailyReturnsAll(all []TimeSeries) []ReturnSeries {
	return perTicker(len(all), func(i int) ReturnSeries {
		return ComputeDailyReturns(all[i])
	})
}

// ComputeYearlyReturn compounds the defined daily returns of a series:
// prod(1+r) - 1.
func ComputeYearlyReturn(series ReturnSeries) (float64, error) {
	growth, n := 1.0, 0
	for _, p := range series.Points {
		if !p.Defined {
			continue
		}
		growth *= 1 + p.Return
		n++
	}
	if n == 0 {
		return 0, &InsufficientDataError{Op: "yearly return", Ticker: series.Ticker, Have: len(series.Points), Need: 2}
	}
	return growth - 1, nil
}

// ComputeYearlyReturns builds the yearly returns table, ordered by ticker.
// Tickers without a single defined daily return have no yearly return and
// are left out of the table.
func ComputeYearlyReturns(series []ReturnSeries) []YearlyReturn {
	type result struct {
		row YearlyReturn
		ok  bool
	}
	results := perTicker(len(series), func(i int) result {
		r, err := ComputeYearlyReturn(series[i])
		return result{row: YearlyReturn{Ticker: series[i].Ticker, Return: r}, ok: err == nil}
	})

	out := make([]YearlyReturn, 0, len(results))
	for _, r := range results {
		if r.ok {
			out = append(out, r.row)
		}
	}
	slices.SortStableFunc(out, func(a, b YearlyReturn) int { return cmp.Compare(a.Ticker, b.Ticker) })
	return out
}
