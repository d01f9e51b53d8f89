// Package parallel provides the worker helpers the ensemble trainers use to
// run independent tree-training rounds concurrently. Results are written to
// per-round slots, so aggregation stays a deterministic sequential reduction
// regardless of scheduling order.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items across NumCPU workers and calls fn for each
// half-open range [start, end).
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// Ceiling division so every item lands in exactly one chunk.
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold parallelizes only when items exceeds threshold;
// below it, fn runs once sequentially over the whole range.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// Rounds runs fn(round) for every round in [0, n), at most NumCPU at a time.
// Each round must be independent and write only to its own result slot.
func Rounds(n int, fn func(round int)) {
	if n <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > n {
		numWorkers = n
	}

	rounds := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range rounds {
				fn(r)
			}
		}()
	}
	for r := 0; r < n; r++ {
		rounds <- r
	}
	close(rounds)
	wg.Wait()
}
