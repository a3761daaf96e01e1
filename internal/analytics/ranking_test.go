package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yearlyMetric(y YearlyReturn) float64 { return y.Return }

func TestTopN(t *testing.T) {
	table := []YearlyReturn{{"A", 0.1}, {"B", 0.5}, {"C", -0.2}, {"D", 0.3}}

	tests := []struct {
		name string
		n    int
		dir  Direction
		want []string
	}{
		{name: "gainers", n: 2, dir: Descending, want: []string{"B", "D"}},
		{name: "losers", n: 2, dir: Ascending, want: []string{"C", "A"}},
		{name: "n larger than table", n: 10, dir: Descending, want: []string{"B", "D", "A", "C"}},
		{name: "zero", n: 0, dir: Descending, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopN(table, tt.n, yearlyMetric, tt.dir)
			require.NoError(t, err)

			tickers := make([]string, 0, len(got))
			for _, r := range got {
				tickers = append(tickers, r.Ticker)
			}
			assert.Equal(t, tt.want, tickers)
		})
	}
}

func TestTopNNegative(t *testing.T) {
	_, err := TopN([]YearlyReturn{{"A", 1}}, -1, yearlyMetric, Descending)

	assert.Error(t, err)
}

func TestTopNKeepsInsertionOrderOnTies(t *testing.T) {
	table := []YearlyReturn{{"X", 0.1}, {"A", 0.2}, {"M", 0.1}, {"B", 0.1}}

	desc, err := TopN(table, 4, yearlyMetric, Descending)
	require.NoError(t, err)
	asc, err := TopN(table, 4, yearlyMetric, Ascending)
	require.NoError(t, err)

	assert.Equal(t, []YearlyReturn{{"A", 0.2}, {"X", 0.1}, {"M", 0.1}, {"B", 0.1}}, desc)
	assert.Equal(t, []YearlyReturn{{"X", 0.1}, {"M", 0.1}, {"B", 0.1}, {"A", 0.2}}, asc)
}

func TestTopNPutsNaNLast(t *testing.T) {
	table := []YearlyReturn{{"N", math.NaN()}, {"A", 1}, {"B", -1}}

	for _, dir := range []Direction{Descending, Ascending} {
		got, err := TopN(table, 3, yearlyMetric, dir)
		require.NoError(t, err)
		assert.Equal(t, "N", got[2].Ticker, dir.String())
	}
}

func TestTopNDoesNotReorderInput(t *testing.T) {
	table := []YearlyReturn{{"A", 0.1}, {"B", 0.5}}

	_, err := TopN(table, 2, yearlyMetric, Descending)
	require.NoError(t, err)

	assert.Equal(t, "A", table[0].Ticker)
}

func TestGainersLosers(t *testing.T) {
	var table []YearlyReturn
	for i, r := range []float64{0.3, -0.1, 0.8, 0.05, -0.4, 0.2, 0.0, -0.25} {
		table = append(table, YearlyReturn{Ticker: string(rune('A' + i)), Return: r})
	}

	gainers, losers, err := GainersLosers(table, 3, yearlyMetric)
	require.NoError(t, err)

	require.Len(t, gainers, 3)
	require.Len(t, losers, 3)
	for i := 1; i < 3; i++ {
		assert.GreaterOrEqual(t, gainers[i-1].Return, gainers[i].Return)
		assert.LessOrEqual(t, losers[i-1].Return, losers[i].Return)
	}
	for _, g := range gainers {
		assert.NotContains(t, losers, g, "2n <= rows, outputs must be disjoint")
	}
}
