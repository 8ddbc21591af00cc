// Package job implements Warp's concurrency primitives: Job
// (cancellation flag + per-key progress map), Future (a memoized
// single-producer async result), and the Reservoir/MovingSample
// statistical samplers. Grounded on a bounded worker-pool pattern for
// concurrent database migrations, re-expressed here as a job-scoped
// primitive rather than a one-off helper.
package job

import (
	"sync"
	"sync/atomic"
)

// Job tracks cancellation and progress for one terminal operation
// (raster/stream/unique/mutation). Child jobs created with Child()
// inherit the parent's cancellation: cancelling the parent cancels
// every descendant.
type Job struct {
	cancelled *atomic.Bool
	mu        sync.Mutex
	progress  map[string]int
	parent    *Job
}

// New creates a root job.
func New() *Job {
	return &Job{cancelled: &atomic.Bool{}, progress: make(map[string]int)}
}

// Child returns a job with its own cancellation flag and progress map:
// it reports cancelled once it or any ancestor is cancelled, while
// cancelling it leaves its parent and siblings running. Nested
// operations (e.g. a join's probe-side scan) can report progress
// independently.
func (j *Job) Child() *Job {
	return &Job{cancelled: &atomic.Bool{}, progress: make(map[string]int), parent: j}
}

// Cancel marks the job (and every descendant Child) cancelled.
func (j *Job) Cancel() {
	j.cancelled.Store(true)
}

// Cancelled reports whether this job or an ancestor was cancelled.
// Cancellation is a best-effort signal, never an error: callers must
// poll this and return gracefully, not propagate an error.
func (j *Job) Cancelled() bool {
	for p := j; p != nil; p = p.parent {
		if p.cancelled.Load() {
			return true
		}
	}
	return false
}

// ProgressInterval is how often long-running loops must poll
// Cancelled() and bump progress.
const ProgressInterval = 512

// Tick increments the named progress counter by n and returns whether
// the caller should keep going (i.e. !Cancelled()). Call this every
// ProgressInterval rows from raster/stream loops.
func (j *Job) Tick(key string, n int) bool {
	j.mu.Lock()
	j.progress[key] += n
	j.mu.Unlock()
	return !j.Cancelled()
}

// Progress returns a snapshot of the progress map for the given key.
func (j *Job) Progress(key string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.progress[key]
}

// ProgressSnapshot returns a copy of the full progress map, e.g. for
// verbose CLI tracing (cmd/warp pretty-prints this with k0kubun/pp).
func (j *Job) ProgressSnapshot() map[string]int {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]int, len(j.progress))
	for k, v := range j.progress {
		out[k] = v
	}
	return out
}
