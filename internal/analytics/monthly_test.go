package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(ticker string, date time.Time, price float64) PricePoint {
	return PricePoint{Ticker: ticker, Date: date, Close: price}
}

func TestComputeMonthlyReturns(t *testing.T) {
	x := TimeSeries{Ticker: "X", Points: []PricePoint{
		point("X", day(2024, time.March, 28), 120),
		point("X", day(2024, time.March, 1), 100),
		point("X", day(2024, time.March, 15), 90),
		point("X", day(2024, time.April, 2), 130),
	}}
	a := TimeSeries{Ticker: "A", Points: []PricePoint{
		point("A", day(2024, time.March, 4), 50),
		point("A", day(2024, time.March, 29), 45),
	}}

	rows := ComputeMonthlyReturns([]TimeSeries{x, a})

	require.Len(t, rows, 3)
	march := MonthPeriod{Year: 2024, Month: time.March}
	assert.Equal(t, march, rows[0].Month)
	assert.Equal(t, "A", rows[0].Ticker)
	assert.InDelta(t, -10.0, rows[0].Return, 1e-9)

	assert.Equal(t, "X", rows[1].Ticker)
	assert.Equal(t, 100.0, rows[1].FirstClose, "first is chronological, not row order")
	assert.Equal(t, 120.0, rows[1].LastClose)
	assert.InDelta(t, 20.0, rows[1].Return, 1e-9)

	assert.Equal(t, MonthPeriod{Year: 2024, Month: time.April}, rows[2].Month)
	assert.Zero(t, rows[2].Return, "a single close in a month is a zero return")
}

func TestComputeMonthlyReturnsZeroFirstClose(t *testing.T) {
	rows := ComputeMonthlyReturns([]TimeSeries{
		daily("UP", 0, 5),
		daily("NIL", 0, 0),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "NIL", rows[0].Ticker)
	assert.True(t, math.IsNaN(rows[0].Return))
	assert.Equal(t, "UP", rows[1].Ticker)
	assert.True(t, math.IsInf(rows[1].Return, 1))
}

func TestFilterMonthAndRank(t *testing.T) {
	rows := ComputeMonthlyReturns([]TimeSeries{
		daily("A", 10, 12),
		daily("B", 10, 9),
		daily("C", 10, 15),
	})

	jan := FilterMonth(rows, MonthPeriod{Year: 2024, Month: time.January})
	gainers, losers, err := GainersLosers(jan, 2, func(r MonthlyReturn) float64 { return r.Return })
	require.NoError(t, err)

	assert.Equal(t, "C", gainers[0].Ticker)
	assert.Equal(t, "A", gainers[1].Ticker)
	assert.Equal(t, "B", losers[0].Ticker)

	unknown := FilterMonth(rows, MonthPeriod{Year: 1999, Month: time.July})
	assert.Empty(t, unknown)
	ranked, err := TopN(unknown, 10, func(r MonthlyReturn) float64 { return r.Return }, Descending)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestMonths(t *testing.T) {
	rows := []MonthlyReturn{
		{Month: MonthPeriod{2024, time.February}},
		{Month: MonthPeriod{2023, time.December}},
		{Month: MonthPeriod{2024, time.February}},
		{Month: MonthPeriod{2024, time.January}},
	}

	assert.Equal(t, []MonthPeriod{
		{2023, time.December},
		{2024, time.January},
		{2024, time.February},
	}, Months(rows))
}

func TestParseMonthPeriod(t *testing.T) {
	p, err := ParseMonthPeriod(" 2024-03 ")
	require.NoError(t, err)
	assert.Equal(t, MonthPeriod{Year: 2024, Month: time.March}, p)
	assert.Equal(t, "2024-03", p.String())

	_, err = ParseMonthPeriod("March 2024")
	assert.Error(t, err)
}
