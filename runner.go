package ndsfs

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// runner executes independent units of work either in parallel, joined by a
// barrier, or one after another in index order. Both produce the same result
// as long as units only write to their own index.
type runner struct {
	parallel bool
}

// run calls fn for 0 <= i < n and returns the first error.
// Units not yet started when an error occurs are skipped.
func (r runner) run(n int, fn func(i int) error) error {
	if !r.parallel {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return fn(i)
		})
	}
	return g.Wait()
}
