package analytics

import "time"

// PricePoint is one daily observation for a ticker. Only Date and Close are
// used by the calculations; the rest is carried for the loaders.
type PricePoint struct {
	Ticker string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// TimeSeries is the ordered price history of a single ticker.
type TimeSeries struct {
	Ticker string
	Points []PricePoint
}

// ReturnPoint is a price observation with its daily return attached.
// Defined is false for the first observation of a ticker.
type ReturnPoint struct {
	Date    time.Time
	Close   float64
	Return  float64
	Defined bool
}

// ReturnSeries is a TimeSeries with daily returns computed.
type ReturnSeries struct {
	Ticker string
	Points []ReturnPoint
}

// YearlyReturn is the compounded return of a ticker over its whole series.
type YearlyReturn struct {
	Ticker string
	Return float64
}

// VolatilityScore is the standard deviation of a ticker's daily returns.
type VolatilityScore struct {
	Ticker string
	Score  float64
}

// CumulativePoint is one step of a compounding trajectory.
type CumulativePoint struct {
	Date  time.Time
	Value float64
}

// SectorPerformance is the mean yearly return of the tickers in a sector.
type SectorPerformance struct {
	Sector      string
	MeanReturn  float64
	MemberCount int
}

// MarketBreadth counts tickers by the sign of their yearly return.
type MarketBreadth struct {
	Total int
	Green int
	Red   int
}

// Breadth counts green (return > 0) and red (return <= 0) tickers. A NaN
// return is in Total but in neither count.
func Breadth(yearly []YearlyReturn) MarketBreadth {
	b := MarketBreadth{Total: len(yearly)}
	for _, y := range yearly {
		switch {
		case y.Return > 0:
			b.Green++
		case y.Return <= 0:
			b.Red++
		}
	}
	return b
}

// Tickers returns the ticker names of the series in input order.
func Tickers(series []ReturnSeries) []string {
	out := make([]string, len(series))
	for i, s := range series {
		out[i] = s.Ticker
	}
	return out
}
