package ingest

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockAnalysis/internal/analytics"
)

func TestReadPrices(t *testing.T) {
	in := "Ticker,Close,date,high,low,month,open,volume\n" +
		"SBIN,595.1,2023-10-04 05:30:00,600,590,2023-10,598,1200.0\n" +
		"SBIN,602.95,2023-10-03 05:30:00,604.9,589.6,2023-10,596.6,15322196\n"

	s, err := ReadPrices(strings.NewReader(in), "SBIN")
	require.NoError(t, err)

	require.Len(t, s.Points, 2)
	first := s.Points[0]
	assert.Equal(t, time.Date(2023, time.October, 3, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "SBIN", first.Ticker)
	assert.Equal(t, 602.95, first.Close)
	assert.Equal(t, 596.6, first.Open)
	assert.Equal(t, 604.9, first.High)
	assert.Equal(t, 589.6, first.Low)
	assert.Equal(t, int64(15322196), first.Volume)
	assert.Equal(t, int64(1200), s.Points[1].Volume)
}

func TestReadPricesSchema(t *testing.T) {
	for name, in := range map[string]string{
		"no close": "date,open\n2024-01-01,1\n",
		"no date":  "day,close\n2024-01-01,1\n",
		"empty":    "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadPrices(strings.NewReader(in), "X")

			var schema *analytics.SchemaError
			assert.ErrorAs(t, err, &schema)
		})
	}
}

func TestReadPricesRejectsBadRows(t *testing.T) {
	tests := map[string]string{
		"bad date":       "date,close\nyesterday,1\n",
		"bad close":      "date,close\n2024-01-01,n/a\n",
		"duplicate date": "date,close\n2024-01-01,1\n2024-01-01 10:00:00,2\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadPrices(strings.NewReader(in), "X")

			assert.ErrorContains(t, err, "line")
		})
	}
}

func TestDirLoadSeries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "TCS.csv"), "date,close\n2024-01-02,11\n2024-01-01,10\n")
	writeFile(t, filepath.Join(dir, "INFY.csv"), "date,close\n2024-01-01,5\n")
	writeFile(t, filepath.Join(dir, "README.md"), "ignored")

	series, err := Dir{Path: dir}.LoadSeries()
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, "INFY", series[0].Ticker)
	assert.Equal(t, "TCS", series[1].Ticker)
	assert.Equal(t, 10.0, series[1].Points[0].Close)
}

func TestDirLoadSeriesReportsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "BAD.csv"), "when,close\n")

	_, err := Dir{Path: dir}.LoadSeries()

	assert.ErrorContains(t, err, "BAD.csv")
}
