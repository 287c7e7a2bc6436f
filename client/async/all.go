package async

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// AwaitAll waits for every handle and returns their values in order. It
// returns the first error observed and stops waiting on the rest; the
// remaining work keeps running unless the caller cancels it.
func AwaitAll[T any](ctx context.Context, handles ...*Handle[T]) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)

	out := make([]T, len(handles))
	for i, h := range handles {
		g.Go(func() error {
			val, err := h.AwaitContext(ctx)
			if err != nil {
				return err
			}
			out[i] = val
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
