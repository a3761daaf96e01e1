package dashboard

import (
	"time"

	"stockAnalysis/internal/analytics"
)

// series builds one close per consecutive day starting on 2024-01-30, so
// the data spans January and February.
func series(ticker string, closes ...float64) analytics.TimeSeries {
	s := analytics.TimeSeries{Ticker: ticker}
	start := time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Points = append(s.Points, analytics.PricePoint{Ticker: ticker, Date: start.AddDate(0, 0, i), Close: c})
	}
	return s
}

func sectorTable(pairs ...string) analytics.SectorTable {
	t := analytics.SectorTable{Columns: []string{analytics.TickerColumn, analytics.SectorColumn}}
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Rows = append(t.Rows, []string{pairs[i], pairs[i+1]})
	}
	return t
}

func sampleDataset() *Dataset {
	return NewDataset([]analytics.TimeSeries{
		series("A", 100, 110, 121, 133.1),
		series("B", 100, 90, 81, 72.9),
		series("C", 100, 101, 100, 101),
	}, sectorTable("A", "Tech", "B", "Energy", "C", "Tech"))
}

func tickersOf[T any](rows []T, ticker func(T) string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, ticker(r))
	}
	return out
}

func yearlyTicker(y analytics.YearlyReturn) string { return y.Ticker }
