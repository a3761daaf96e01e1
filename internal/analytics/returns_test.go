package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDailyReturns(t *testing.T) {
	rs := ComputeDailyReturns(daily("A", 10, 11, 9.9))

	require.Len(t, rs.Points, 3)
	assert.Equal(t, "A", rs.Ticker)
	assert.False(t, rs.Points[0].Defined, "first observation has no return")
	assert.Zero(t, rs.Points[0].Return)
	assert.True(t, rs.Points[1].Defined)
	assert.InDelta(t, 0.10, rs.Points[1].Return, 1e-12)
	assert.True(t, rs.Points[2].Defined)
	assert.InDelta(t, -0.10, rs.Points[2].Return, 1e-12)
}

func TestComputeDailyReturnsSortsACopy(t *testing.T) {
	in := TimeSeries{Ticker: "A", Points: []PricePoint{
		{Date: day(2024, time.January, 3), Close: 12},
		{Date: day(2024, time.January, 1), Close: 10},
		{Date: day(2024, time.January, 2), Close: 11},
	}}

	rs := ComputeDailyReturns(in)

	assert.Equal(t, day(2024, time.January, 3), in.Points[0].Date, "input must not be reordered")
	require.Len(t, rs.Points, 3)
	assert.Equal(t, day(2024, time.January, 1), rs.Points[0].Date)
	assert.Equal(t, 10.0, rs.Points[0].Close)
	assert.InDelta(t, 12.0/11.0-1, rs.Points[2].Return, 1e-12)
}

func TestComputeYearlyReturn(t *testing.T) {
	r, err := ComputeYearlyReturn(ComputeDailyReturns(daily("A", 10, 11, 9.9)))

	require.NoError(t, err)
	assert.InDelta(t, -0.01, r, 1e-12)
}

func TestComputeYearlyReturnInsufficientData(t *testing.T) {
	for name, s := range map[string]TimeSeries{
		"empty":        {Ticker: "E"},
		"single point": daily("S", 42),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ComputeYearlyReturn(ComputeDailyReturns(s))

			var insufficient *InsufficientDataError
			require.ErrorAs(t, err, &insufficient)
			assert.Equal(t, s.Ticker, insufficient.Ticker)
		})
	}
}

func TestYearlyReturnEqualsProductOfDailyReturns(t *testing.T) {
	series := []TimeSeries{
		daily("A", 100, 101, 99.5, 104, 103.2, 110),
		daily("B", 5, 5, 5.5, 4.75),
		daily("C", 1, 2),
	}
	for _, rs := range returnsOf(series...) {
		direct := 1.0
		for _, p := range rs.Points[1:] {
			direct *= 1 + p.Return
		}
		yearly, err := ComputeYearlyReturn(rs)
		require.NoError(t, err)
		assert.InDelta(t, direct-1, yearly, 1e-12, rs.Ticker)
	}
}

func TestComputeYearlyReturns(t *testing.T) {
	table := ComputeYearlyReturns(returnsOf(
		daily("ZED", 10, 20),
		daily("ONE", 7),
		daily("ABC", 10, 5),
	))

	require.Len(t, table, 2, "a ticker without returns has no yearly return")
	assert.Equal(t, "ABC", table[0].Ticker)
	assert.InDelta(t, -0.5, table[0].Return, 1e-12)
	assert.Equal(t, "ZED", table[1].Ticker)
	assert.InDelta(t, 1.0, table[1].Return, 1e-12)
}

func TestBreadth(t *testing.T) {
	b := Breadth([]YearlyReturn{{"A", 0.2}, {"B", 0}, {"C", -0.1}, {"D", 0.01}})

	assert.Equal(t, MarketBreadth{Total: 4, Green: 2, Red: 2}, b)
}

func TestBreadthSkipsNaN(t *testing.T) {
	b := Breadth([]YearlyReturn{{"A", 0.2}, {"B", math.NaN()}, {"C", -0.1}})

	assert.Equal(t, MarketBreadth{Total: 3, Green: 1, Red: 1}, b)
}
