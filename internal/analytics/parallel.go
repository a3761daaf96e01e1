package analytics

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// perTicker runs fn for every index in [0,n) on a bounded pool and stores
// each result in its own slot, so the output order never depends on
// scheduling.
func perTicker[T any](n int, fn func(i int) T) []T {
	out := make([]T, n)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			out[i] = fn(i)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
