package splitsort

import "golang.org/x/sync/errgroup"

// forEachChunk splits [0, n) into one contiguous chunk per worker and runs
// fn over each chunk concurrently. It returns the first error any chunk
// produced after all chunks have finished. Chunking is static: workers never
// steal, matching the data-parallel loops of the sort phases.
func forEachChunk(workers, n int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error {
			return fn(start, end)
		})
	}
	return g.Wait()
}
