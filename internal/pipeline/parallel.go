package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// mapParallel applies fn to every value and returns the results in input
// order. The values are split into at most limit contiguous chunks, each
// processed by one goroutine of a bounded errgroup; every goroutine writes
// only its own result slots, so no locking is needed.
//
// fn must be safe for concurrent use. A cancelled ctx stops chunks that
// have not started yet and its error is returned.
func mapParallel(ctx context.Context, values []string, limit int, fn func(string) string) ([]string, error) {
	results := make([]string, len(values))
	if len(values) == 0 {
		return results, nil
	}
	if limit <= 0 {
		limit = 1
	}

	chunk := (len(values) + limit - 1) / limit

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for start := 0; start < len(values); start += chunk {
		end := min(start+chunk, len(values))
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			for i := start; i < end; i++ {
				results[i] = fn(values[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
