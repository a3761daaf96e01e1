package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCorrelationIdenticalSeries(t *testing.T) {
	m, err := ComputeCorrelation([]TimeSeries{
		daily("A", 10, 11, 10.5, 12, 11.7),
		daily("B", 10, 11, 10.5, 12, 11.7),
	})
	require.NoError(t, err)

	v, ok := m.At("A", "B")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestComputeCorrelationIsSymmetric(t *testing.T) {
	m, err := ComputeCorrelation([]TimeSeries{
		daily("C", 5, 5.2, 5.1, 5.6, 5.4, 5.9),
		daily("A", 10, 11, 10.5, 12, 11.7, 11.9),
		daily("B", 20, 19, 19.5, 18, 18.4, 18.1),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, m.Tickers)
	for i := range m.Tickers {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Tickers {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.LessOrEqual(t, math.Abs(m.Values[i][j]), 1.0)
		}
	}
	ab, _ := m.At("A", "B")
	assert.Less(t, ab, 0.0)
}

func TestComputeCorrelationUsesFullMatrixAlignment(t *testing.T) {
	b := daily("B", 20, 22, 0, 26, 24)
	b.Points = append(b.Points[:2], b.Points[3:]...)

	m, err := ComputeCorrelation([]TimeSeries{daily("A", 10, 11, 12, 13, 12), b})
	require.NoError(t, err)

	// The gap on day 3 removes the changes of day 3 and day 4.
	assert.Equal(t, []time.Time{day(2024, time.January, 2), day(2024, time.January, 5)}, m.Dates)
	v, _ := m.At("A", "B")
	assert.InDelta(t, 1.0, v, 1e-12)
}

func TestComputeCorrelationInsufficientData(t *testing.T) {
	shifted := daily("B", 1, 2, 3)
	for i := range shifted.Points {
		shifted.Points[i].Date = shifted.Points[i].Date.AddDate(0, 0, 1)
	}
	shifted.Points = shifted.Points[:2]

	tests := map[string][]TimeSeries{
		"single ticker":     {daily("A", 1, 2, 3)},
		"no common changes": {daily("A", 10, 11), shifted},
		"one common change": {daily("A", 1, 2), daily("B", 3, 4)},
	}
	for name, series := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ComputeCorrelation(series)

			var insufficient *InsufficientDataError
			assert.ErrorAs(t, err, &insufficient)
		})
	}
}

func TestComputeCorrelationFlatSeries(t *testing.T) {
	m, err := ComputeCorrelation([]TimeSeries{daily("A", 1, 2, 3, 5), daily("F", 4, 4, 4, 4)})
	require.NoError(t, err)

	v, _ := m.At("A", "F")
	assert.True(t, math.IsNaN(v))
	f, _ := m.At("F", "F")
	assert.Equal(t, 1.0, f)
}
