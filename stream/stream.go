// Package stream implements the pull-based, back-pressured row pipeline
// that sits between a Dataset's algebraic operators and whatever finally
// consumes rows (a raster materialization, a CSV writer, another stream).
package stream

import (
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
)

// ChunkSize bounds how many rows a single Fetch call may deliver in one
// callback invocation, keeping memory bounded regardless of how large the
// underlying source is.
const ChunkSize = 256

// Chunk is one batch of rows delivered by a Fetch call.
type Chunk struct {
	Rows []table.Row
}

// Consumer receives one delivered Chunk. hasMore is false on the call
// that exhausts the stream and on the call for any wavefront past its
// end; a non-nil err aborts delivery
// and no further calls for that Fetch will follow.
type Consumer func(chunk Chunk, hasMore bool, err error)

// Stream is a pull-based, potentially-concurrent source of row chunks.
// Implementations must tolerate Fetch being called for several
// wavefronts concurrently (see Puller) and must not assume earlier
// wavefronts have already completed by the time a later one starts.
type Stream interface {
	// Columns reports the schema that every delivered Chunk's rows are
	// shaped to. It may do work (e.g. a backend round trip) and is
	// therefore job-aware and fallible.
	Columns(j *job.Job) (table.Columns, error)

	// Fetch retrieves the chunk at the given wavefront position
	// (0-based, monotonically assigned by the caller) and invokes
	// consumer exactly once with the result. Implementations that are
	// randomly addressable (e.g. a Raster) can serve wavefronts
	// out of order internally; implementations that are only
	// sequentially addressable must serialize internally and are free
	// to block a later wavefront behind an earlier one.
	Fetch(j *job.Job, wavefront int, consumer Consumer)

	// Clone returns an independent stream over the same logical source,
	// positioned at the start, safe to drive concurrently with the
	// receiver. Required before the same upstream is consumed by more
	// than one terminal operation (e.g. both sides of a self-join).
	Clone() Stream
}
