package stream

import "sync"

// serialRelay enforces in-order delivery for transformers whose state
// (a row counter, a reservoir, a limit budget) can only advance
// meaningfully in wavefront order, even though upstream.Fetch may be
// invoked for several wavefronts concurrently. Each caller registers its
// wavefront's result as soon as it has one; relay buffers
// out-of-order arrivals and drains them to the real consumer as soon as
// the next expected position is available.
type serialRelay struct {
	mu       sync.Mutex
	next     int
	draining bool
	pending  map[int]pendingResult
}

type pendingResult struct {
	chunk    Chunk
	hasMore  bool
	err      error
	consumer Consumer
}

func newSerialRelay() *serialRelay {
	return &serialRelay{pending: map[int]pendingResult{}}
}

// deliver registers the result for wavefront pos together with that
// wavefront's consumer and drains any contiguous run of results
// (starting at the relay's current position), each to the consumer it
// was registered with, in order. Only one caller drains at a time.
func (r *serialRelay) deliver(pos int, chunk Chunk, hasMore bool, err error, consumer Consumer) {
	r.mu.Lock()
	r.pending[pos] = pendingResult{chunk, hasMore, err, consumer}
	if r.draining {
		r.mu.Unlock()
		return
	}
	r.draining = true
	for {
		res, ok := r.pending[r.next]
		if !ok {
			break
		}
		delete(r.pending, r.next)
		r.next++
		r.mu.Unlock()
		res.consumer(res.chunk, res.hasMore, res.err)
		r.mu.Lock()
	}
	r.draining = false
	r.mu.Unlock()
}
