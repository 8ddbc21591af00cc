// Package dataset defines the algebraic operator contract that
// every backend — in-memory raster evaluation (package inmem) or SQL
// pushdown (package sqldataset) — implements identically, plus the
// Coalesced fusion wrapper that rewrites adjacent deferred operator
// invocations before they reach a backend.
package dataset

import (
	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/stream"
	"github.com/pixelspark/warp/table"
)

// JoinKind selects the matching policy for Dataset.Join.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
)

// Dataset is Warp's lazily-built query: every method but the terminal
// trio (Columns/Raster/Stream) returns a new, unevaluated Dataset. A
// concrete implementation may defer all work to a call against
// Raster/Stream (inmem.RasterDataset) or translate the whole chain into
// a single SQL statement (sqldataset.SQLDataset, which falls back to
// materializing the statement built so far and continuing in memory
// with package inmem whenever a dialect cannot represent an operator —
// e.g. no native pivot).
type Dataset interface {
	// Columns reports the schema this dataset would produce, without
	// necessarily materializing any rows.
	Columns(j *job.Job) (table.Columns, error)

	// Raster fully materializes the dataset.
	Raster(j *job.Job) (*table.Raster, error)

	// Stream exposes the dataset as a pull-based row source.
	Stream(j *job.Job) (stream.Stream, error)

	Filter(predicate expr.Expression) Dataset
	Calculate(target table.Column, formula expr.Expression) Dataset
	Select(columns table.Columns) Dataset
	Limit(n int) Dataset
	Offset(n int) Dataset
	Random(k int) Dataset
	Flatten(column table.Column) Dataset
	Sort(orders []expr.Order) Dataset
	Distinct(columns table.Columns) Dataset
	Aggregate(groupBy table.Columns, aggregations []expr.Aggregation) Dataset
	Join(other Dataset, leftKey, rightKey table.Column, kind JoinKind) Dataset
	Union(other Dataset) Dataset
	Pivot(rowColumn, pivotColumn, valueColumn table.Column, reducer *expr.Reducer) Dataset
	Transpose() Dataset
}
