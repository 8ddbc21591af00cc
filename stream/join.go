package stream

import (
	"sync"

	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
)

// JoinKind selects the matching policy for JoinTransformer.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
)

// JoinTransformer performs a hash join of upstream (the left side)
// against a fully materialized right side. The right side is hashed
// once on first use; each left chunk then
// probes that table independently of every other chunk, so — like
// FilterTransformer — no cross-chunk ordering state is required here.
type JoinTransformer struct {
	chunkMapper
	Upstream  Stream
	Right     *table.Raster
	LeftKey   table.Column
	RightKey  table.Column
	Kind      JoinKind

	once  sync.Once
	index map[uint64][]table.Row
}

// NewJoinTransformer builds a Stream that joins upstream rows against
// right's rows where leftKey equals rightKey.
func NewJoinTransformer(upstream Stream, right *table.Raster, leftKey, rightKey table.Column, kind JoinKind) *JoinTransformer {
	j := &JoinTransformer{Upstream: upstream, Right: right, LeftKey: leftKey, RightKey: rightKey, Kind: kind}
	j.chunkMapper = chunkMapper{upstream: upstream, transform: j.apply}
	return j
}

func (j *JoinTransformer) buildIndex() {
	j.once.Do(func() {
		j.index = map[uint64][]table.Row{}
		for i := 0; i < j.Right.Len(); i++ {
			row := j.Right.Row(i)
			h := row.Get(j.RightKey).Hash()
			j.index[h] = append(j.index[h], row)
		}
	})
}

func (j *JoinTransformer) apply(chunk Chunk) (Chunk, error) {
	if len(chunk.Rows) == 0 {
		return Chunk{}, nil
	}
	j.buildIndex()
	outCols := chunk.Rows[0].Columns.Union(j.Right.Columns())
	var rows []table.Row
	for _, left := range chunk.Rows {
		key := left.Get(j.LeftKey)
		matches := j.index[key.Hash()]
		matched := false
		for _, right := range matches {
			if !right.Get(j.RightKey).IdenticalTo(key) {
				continue
			}
			matched = true
			rows = append(rows, mergeRows(left, right, outCols))
		}
		if !matched && j.Kind == JoinLeft {
			rows = append(rows, mergeRows(left, table.Row{}, outCols))
		}
	}
	return Chunk{Rows: rows}, nil
}

func mergeRows(left, right table.Row, cols table.Columns) table.Row {
	values := make([]value.Value, cols.Len())
	for i, col := range cols.Slice() {
		if left.Columns.Has(col) {
			values[i] = left.Get(col)
			continue
		}
		values[i] = right.Get(col)
	}
	return table.NewRow(cols, values)
}

func (j *JoinTransformer) Columns(job *job.Job) (table.Columns, error) {
	left, err := j.Upstream.Columns(job)
	if err != nil {
		return left, err
	}
	return left.Union(j.Right.Columns()), nil
}

func (j *JoinTransformer) Clone() Stream {
	return NewJoinTransformer(j.Upstream.Clone(), j.Right, j.LeftKey, j.RightKey, j.Kind)
}
