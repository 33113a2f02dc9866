package equity

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// splitIterations splits a total iteration budget into n chunks that differ
// by at most one, spreading the remainder over the leading chunks.
func splitIterations(total, n int) []int {
	if n < 1 {
		n = 1
	}
	chunks := make([]int, n)
	per := total / n
	remainder := total % n
	for i := range chunks {
		chunks[i] = per
		if i < remainder {
			chunks[i]++
		}
	}
	return chunks
}

// runParallel executes n independent chunks with at most `workers` running
// concurrently and merges their tallies after the barrier join. Chunks share
// nothing mutable, so the merged tally is identical to sequential execution
// of the same chunks. With one chunk or one worker everything runs inline,
// which is also the graceful degradation path when parallelism is
// unavailable.
func runParallel(ctx context.Context, players, n, workers int, fn func(chunk int) *Tally) (*Tally, error) {
	merged := NewTally(players)

	if n <= 1 || workers <= 1 {
		for c := 0; c < n; c++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			merged.Merge(fn(c))
		}
		return merged, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	partials := make([]*Tally, n)

	for c := 0; c < n; c++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partials[c] = fn(c)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, t := range partials {
		if t != nil {
			merged.Merge(t)
		}
	}
	return merged, nil
}
