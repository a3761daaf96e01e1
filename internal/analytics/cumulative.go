package analytics

// ComputeCumulative builds the compounding trajectory prod(1+r) of each
// requested ticker. Only dates with a defined daily return produce a point,
// so the first value is 1 plus the first return; no anchor of exactly 1 is
// prepended.
func ComputeCumulative(series []ReturnSeries, tickers []string) (map[string][]CumulativePoint, error) {
	index := make(map[string]int, len(series))
	for i, s := range series {
		index[s.Ticker] = i
	}
	selected := make([]int, len(tickers))
	for i, t := range tickers {
		idx, ok := index[t]
		if !ok {
			return nil, &UnknownTickerError{Ticker: t}
		}
		selected[i] = idx
	}

	paths := perTicker(len(selected), func(i int) []CumulativePoint {
		return cumulativePath(series[selected[i]])
	})
	out := make(map[string][]CumulativePoint, len(tickers))
	for i, t := range tickers {
		out[t] = paths[i]
	}
	return out, nil
}

func cumulativePath(s ReturnSeries) []CumulativePoint {
	path := make([]CumulativePoint, 0, len(s.Points))
	value := 1.0
	for _, p := range s.Points {
		if !p.Defined {
			continue
		}
		value *= 1 + p.Return
		path = append(path, CumulativePoint{Date: p.Date, Value: value})
	}
	return path
}
