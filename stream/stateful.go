package stream

import (
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
)

// LimitTransformer caps the total number of rows delivered, regardless
// of how many wavefronts are in flight. Because the row budget is
// global, wavefronts are drained through a serialRelay so the cutoff is
// applied in logical row order rather than arrival order.
type LimitTransformer struct {
	Upstream Stream
	Max      int

	relay    *serialRelay
	consumed int
}

// NewLimitTransformer builds a Stream that stops after max rows.
func NewLimitTransformer(upstream Stream, max int) *LimitTransformer {
	return &LimitTransformer{Upstream: upstream, Max: max, relay: newSerialRelay()}
}

func (l *LimitTransformer) Columns(j *job.Job) (table.Columns, error) { return l.Upstream.Columns(j) }

func (l *LimitTransformer) Fetch(j *job.Job, wavefront int, consumer Consumer) {
	l.Upstream.Fetch(j, wavefront, func(chunk Chunk, hasMore bool, err error) {
		if err != nil {
			l.relay.deliver(wavefront, Chunk{}, false, err, consumer)
			return
		}
		l.relay.deliver(wavefront, chunk, hasMore, nil, func(c Chunk, more bool, err error) {
			if l.consumed >= l.Max {
				consumer(Chunk{}, false, nil)
				return
			}
			remaining := l.Max - l.consumed
			rows := c.Rows
			truncated := false
			if len(rows) > remaining {
				rows = rows[:remaining]
				truncated = true
			}
			l.consumed += len(rows)
			consumer(Chunk{Rows: rows}, more && !truncated && l.consumed < l.Max, err)
		})
	})
}

func (l *LimitTransformer) Clone() Stream {
	return NewLimitTransformer(l.Upstream.Clone(), l.Max)
}

// OffsetTransformer skips a fixed number of leading rows.
type OffsetTransformer struct {
	Upstream Stream
	Skip     int

	relay   *serialRelay
	skipped int
}

// NewOffsetTransformer builds a Stream that discards the first skip rows.
func NewOffsetTransformer(upstream Stream, skip int) *OffsetTransformer {
	return &OffsetTransformer{Upstream: upstream, Skip: skip, relay: newSerialRelay()}
}

func (o *OffsetTransformer) Columns(j *job.Job) (table.Columns, error) { return o.Upstream.Columns(j) }

func (o *OffsetTransformer) Fetch(j *job.Job, wavefront int, consumer Consumer) {
	o.Upstream.Fetch(j, wavefront, func(chunk Chunk, hasMore bool, err error) {
		if err != nil {
			o.relay.deliver(wavefront, Chunk{}, false, err, consumer)
			return
		}
		o.relay.deliver(wavefront, chunk, hasMore, nil, func(c Chunk, more bool, err error) {
			rows := c.Rows
			if o.skipped < o.Skip {
				drop := o.Skip - o.skipped
				if drop > len(rows) {
					drop = len(rows)
				}
				o.skipped += drop
				rows = rows[drop:]
			}
			consumer(Chunk{Rows: rows}, more, err)
		})
	})
}

func (o *OffsetTransformer) Clone() Stream {
	return NewOffsetTransformer(o.Upstream.Clone(), o.Skip)
}
