package renderer

import (
	"sync"
)

// parallelFor dispatches fn over [0, n) across the given number of workers
// and blocks until every index completes. Indices are chunked contiguously;
// fn receives the flat index, so per-index seeding keeps results independent
// of the worker count.
func parallelFor(n, workers int, fn func(idx int)) {
	if n <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		begin := w * chunk
		end := begin + chunk
		if end > n {
			end = n
		}
		if begin >= end {
			break
		}
		wg.Add(1)
		go func(begin, end int) {
			defer wg.Done()
			for i := begin; i < end; i++ {
				fn(i)
			}
		}(begin, end)
	}
	wg.Wait()
}

// parallelFor2D dispatches fn over a width x height grid, row-major
func parallelFor2D(width, height, workers int, fn func(x, y int)) {
	parallelFor(width*height, workers, func(idx int) {
		fn(idx%width, idx/width)
	})
}
