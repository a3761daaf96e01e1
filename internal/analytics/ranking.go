package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Direction selects the sort order of a ranking.
type Direction int

const (
	// Descending ranks the largest values first (gainers).
	Descending Direction = iota
	// Ascending ranks the smallest values first (losers).
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "ascending"
	}
	return "descending"
}

// DefaultTopN is the size of the gainers and losers tables.
const DefaultTopN = 10

// TopN returns the first n rows of rows ordered by metric in the given
// direction. The sort is stable: rows with equal metrics keep their input
// order. NaN metrics always sort last. n larger than the table returns the
// whole table; a negative n is an error.
func TopN[T any](rows []T, n int, metric func(T) float64, dir Direction) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("top n: n must be >= 0, got %d", n)
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return compareMetric(metric(a), metric(b), dir)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n:n], nil
}

// GainersLosers returns the top n rows in descending and ascending order.
func GainersLosers[T any](rows []T, n int, metric func(T) float64) (gainers, losers []T, err error) {
	if gainers, err = TopN(rows, n, metric, Descending); err != nil {
		return nil, nil, err
	}
	if losers, err = TopN(rows, n, metric, Ascending); err != nil {
		return nil, nil, err
	}
	return gainers, losers, nil
}

func compareMetric(a, b float64, dir Direction) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	c := cmp.Compare(a, b)
	if dir == Descending {
		c = -c
	}
	return c
}
