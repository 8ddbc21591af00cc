package stream

import (
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
)

// RasterStream serves a Raster's rows as a Stream, one ChunkSize slice
// per wavefront. Because a Raster is fully materialized and randomly
// addressable, wavefronts map directly onto chunk indices and need no
// reordering buffer of their own.
type RasterStream struct {
	raster *table.Raster
}

// NewRasterStream wraps a materialized Raster for streaming consumption.
func NewRasterStream(r *table.Raster) *RasterStream {
	return &RasterStream{raster: r}
}

func (s *RasterStream) Columns(j *job.Job) (table.Columns, error) {
	return s.raster.Columns(), nil
}

func (s *RasterStream) Fetch(j *job.Job, wavefront int, consumer Consumer) {
	start := wavefront * ChunkSize
	total := s.raster.Len()
	if start >= total {
		consumer(Chunk{}, false, nil)
		return
	}
	end := start + ChunkSize
	if end > total {
		end = total
	}
	rows := make([]table.Row, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, s.raster.Row(i))
	}
	consumer(Chunk{Rows: rows}, end < total, nil)
}

func (s *RasterStream) Clone() Stream {
	return &RasterStream{raster: s.raster}
}
