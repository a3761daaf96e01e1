package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockAnalysis/internal/analytics"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenSQLite("file:" + filepath.Join(t.TempDir(), "prices.db") + "?_fk=1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))
	return NewStore(db)
}

func series(ticker string, closes ...float64) analytics.TimeSeries {
	s := analytics.TimeSeries{Ticker: ticker}
	for i, c := range closes {
		s.Points = append(s.Points, analytics.PricePoint{
			Ticker: ticker,
			Date:   time.Date(2024, time.January, 1+i, 0, 0, 0, 0, time.UTC),
			Open:   c - 1,
			Close:  c,
			Volume: int64(100 * (i + 1)),
		})
	}
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	n, err := store.InsertPrices(series("TCS", 10, 11, 12))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = store.InsertPrices(series("INFY", 5, 6))
	require.NoError(t, err)

	loaded, err := store.LoadSeries()
	require.NoError(t, err)

	require.Len(t, loaded, 2)
	assert.Equal(t, "INFY", loaded[0].Ticker)
	assert.Equal(t, series("TCS", 10, 11, 12), loaded[1])
}

func TestStoreInsertIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	_, err := store.InsertPrices(series("TCS", 10, 11))
	require.NoError(t, err)
	_, err = store.InsertPrices(series("TCS", 10, 12))
	require.NoError(t, err)

	count, err := store.CountRows()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	loaded, err := store.LoadSeries()
	require.NoError(t, err)
	assert.Equal(t, 12.0, loaded[0].Points[1].Close)
}
