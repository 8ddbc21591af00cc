// Package inmem is the raster evaluator: it implements
// dataset.Dataset directly over an in-memory table.Raster, using
// bounded-concurrency map/reduce for the operators that can benefit
// from it and the stream package's transformer chain for the ones that
// are naturally row-at-a-time.
package inmem

import (
	"context"

	"github.com/pixelspark/warp/dataset"
	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/stream"
	"github.com/pixelspark/warp/table"
)

// RasterDataset is a dataset.Dataset backed by a materialized Raster
// plus a queue of cheap, stream-able operators (filter/calculate/
// select/limit/offset/random/flatten/join) deferred until Raster/Stream
// is actually called. Operators that require full materialization
// (sort/distinct/aggregate/union/pivot/transpose) flush the queue
// immediately and produce a new base Raster.
type RasterDataset struct {
	base *table.Raster
	ops  []streamOp
}

type streamOp func(stream.Stream) stream.Stream

// New wraps an already-materialized Raster as a Dataset.
func New(r *table.Raster) *RasterDataset {
	return &RasterDataset{base: r}
}

func (d *RasterDataset) chain(op streamOp) *RasterDataset {
	ops := make([]streamOp, len(d.ops), len(d.ops)+1)
	copy(ops, d.ops)
	ops = append(ops, op)
	return &RasterDataset{base: d.base, ops: ops}
}

func (d *RasterDataset) Stream(j *job.Job) (stream.Stream, error) {
	var s stream.Stream = stream.NewRasterStream(d.base)
	for _, op := range d.ops {
		s = op(s)
	}
	return s, nil
}

func (d *RasterDataset) Columns(j *job.Job) (table.Columns, error) {
	s, err := d.Stream(j)
	if err != nil {
		return table.Columns{}, err
	}
	return s.Columns(j)
}

func (d *RasterDataset) Raster(j *job.Job) (*table.Raster, error) {
	if len(d.ops) == 0 {
		return d.base, nil
	}
	s, err := d.Stream(j)
	if err != nil {
		return nil, err
	}
	return stream.NewPuller(0).Pull(context.Background(), j, s)
}

func (d *RasterDataset) Filter(predicate expr.Expression) dataset.Dataset {
	return d.chain(func(s stream.Stream) stream.Stream {
		return stream.NewFilterTransformer(s, predicate)
	})
}

func (d *RasterDataset) Calculate(target table.Column, formula expr.Expression) dataset.Dataset {
	return d.chain(func(s stream.Stream) stream.Stream {
		return stream.NewCalculateTransformer(s, target, formula)
	})
}

func (d *RasterDataset) Select(columns table.Columns) dataset.Dataset {
	return d.chain(func(s stream.Stream) stream.Stream {
		return stream.NewSelectTransformer(s, columns)
	})
}

func (d *RasterDataset) Limit(n int) dataset.Dataset {
	return d.chain(func(s stream.Stream) stream.Stream {
		return stream.NewLimitTransformer(s, n)
	})
}

func (d *RasterDataset) Offset(n int) dataset.Dataset {
	return d.chain(func(s stream.Stream) stream.Stream {
		return stream.NewOffsetTransformer(s, n)
	})
}

func (d *RasterDataset) Random(k int) dataset.Dataset {
	return d.chain(func(s stream.Stream) stream.Stream {
		return stream.NewRandomTransformer(s, k)
	})
}

func (d *RasterDataset) Flatten(column table.Column) dataset.Dataset {
	return d.chain(func(s stream.Stream) stream.Stream {
		return stream.NewFlattenTransformer(s, column)
	})
}

func (d *RasterDataset) Join(other dataset.Dataset, leftKey, rightKey table.Column, kind dataset.JoinKind) dataset.Dataset {
	return d.chain(func(s stream.Stream) stream.Stream {
		right, err := other.Raster(job.New())
		if err != nil {
			return s
		}
		jk := stream.JoinInner
		if kind == dataset.JoinLeft {
			jk = stream.JoinLeft
		}
		return stream.NewJoinTransformer(s, right, leftKey, rightKey, jk)
	})
}
