package analytics

import "time"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daily builds a series with one close per consecutive day starting on
// 2024-01-01.
func daily(ticker string, closes ...float64) TimeSeries {
	s := TimeSeries{Ticker: ticker}
	start := day(2024, time.January, 1)
	for i, c := range closes {
		s.Points = append(s.Points, PricePoint{Ticker: ticker, Date: start.AddDate(0, 0, i), Close: c})
	}
	return s
}

func returnsOf(series ...TimeSeries) []ReturnSeries {
	return ComputeDailyReturnsAll(series)
}
