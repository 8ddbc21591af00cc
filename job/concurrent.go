package job

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ConcurrentMap applies f to every input with at most concurrency
// calls in flight at once (0 means unlimited), returning outputs in
// input order regardless of completion order, and ticking j's
// progress every ProgressInterval inputs so a long map phase stays
// cancellable. The first error from any call aborts the calls that
// have not started yet and is returned.
func ConcurrentMap[Tin any, Tout any](j *Job, inputs []Tin, concurrency int, f func(Tin) (Tout, error)) ([]Tout, error) {
	outputs := make([]Tout, len(inputs))
	g, ctx := errgroup.WithContext(context.Background())
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i := range inputs {
		i, in := i, inputs[i]
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if i%ProgressInterval == 0 && !j.Tick("concurrent-map", ProgressInterval) {
				return nil
			}
			out, err := f(in)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}
