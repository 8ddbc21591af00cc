package stream

import (
	"context"
	"runtime"
	"sync"

	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
	"golang.org/x/sync/errgroup"
)

func numCPU() int { return runtime.NumCPU() }

// Puller materializes a Stream into a Raster by spawning up to
// Concurrency wavefronts at once, reassembling their results in order
// regardless of completion order, and stopping as soon as either the
// stream is exhausted or the job is cancelled. This is the terminal
// consumer: individual Transformers guarantee correctness of their own
// chunk, the Puller guarantees the final row order and the concurrency
// budget.
type Puller struct {
	// Concurrency bounds how many wavefronts may be in flight at once.
	// Zero means runtime.NumCPU.
	Concurrency int
}

// NewPuller builds a Puller with the given concurrency budget.
func NewPuller(concurrency int) *Puller {
	return &Puller{Concurrency: concurrency}
}

// Pull drains s entirely into a Raster, honoring j's cancellation.
func (p *Puller) Pull(ctx context.Context, j *job.Job, s Stream) (*table.Raster, error) {
	cols, err := s.Columns(j)
	if err != nil {
		return nil, err
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = numCPU()
	}

	raster := table.NewRaster(cols)
	relay := newSerialRelay()

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, concurrency)
	var mu sync.Mutex
	done := false

	for wavefront := 0; ; wavefront++ {
		if done || j.Cancelled() {
			break
		}
		select {
		case <-gctx.Done():
			goto drain
		default:
		}

		wf := wavefront
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			var ferr error
			s.Fetch(j, wf, func(chunk Chunk, hasMore bool, err error) {
				if err != nil {
					ferr = err
					return
				}
				relay.deliver(wf, chunk, hasMore, nil, func(c Chunk, more bool, _ error) {
					mu.Lock()
					for _, row := range c.Rows {
						raster.AddRow(row.Values)
					}
					if !more {
						done = true
					}
					mu.Unlock()
				})
			})
			return ferr
		})

		mu.Lock()
		stop := done
		mu.Unlock()
		if stop {
			break
		}
	}

drain:
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raster, nil
}
