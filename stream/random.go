package stream

import (
	"sync"

	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
)

// RandomTransformer draws an unordered sample of k rows from upstream
// using reservoir sampling (job.Reservoir). Sampling requires seeing
// every upstream row before any output row can be considered final,
// so unlike the other transformers this one drains
// upstream completely on first use and then serves the fixed sample to
// every wavefront.
type RandomTransformer struct {
	Upstream Stream
	K        int

	once     sync.Once
	sampled  []table.Row
	sampleMu sync.Mutex
}

// NewRandomTransformer builds a Stream that yields an unordered sample
// of k rows.
func NewRandomTransformer(upstream Stream, k int) *RandomTransformer {
	return &RandomTransformer{Upstream: upstream, K: k}
}

func (r *RandomTransformer) Columns(j *job.Job) (table.Columns, error) { return r.Upstream.Columns(j) }

func (r *RandomTransformer) materialize(j *job.Job) {
	r.once.Do(func() {
		reservoir := job.NewReservoir[table.Row](r.K)
		wavefront := 0
		for {
			var chunk Chunk
			var hasMore bool
			r.Upstream.Fetch(j, wavefront, func(c Chunk, more bool, err error) {
				chunk, hasMore = c, more
			})
			for _, row := range chunk.Rows {
				reservoir.Add(row)
			}
			if !hasMore || !j.Tick("random", len(chunk.Rows)) {
				break
			}
			wavefront++
		}
		r.sampleMu.Lock()
		r.sampled = reservoir.Result()
		r.sampleMu.Unlock()
	})
}

func (r *RandomTransformer) Fetch(j *job.Job, wavefront int, consumer Consumer) {
	r.materialize(j)
	r.sampleMu.Lock()
	rows := r.sampled
	r.sampleMu.Unlock()

	start := wavefront * ChunkSize
	if start >= len(rows) {
		consumer(Chunk{}, false, nil)
		return
	}
	end := start + ChunkSize
	if end > len(rows) {
		end = len(rows)
	}
	consumer(Chunk{Rows: rows[start:end]}, end < len(rows), nil)
}

func (r *RandomTransformer) Clone() Stream {
	return NewRandomTransformer(r.Upstream.Clone(), r.K)
}
