package stream

import (
	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
)

// chunkMapper is shared plumbing for transformers whose output for a
// given input chunk does not depend on any other chunk: each wavefront
// can be computed independently and forwarded to the consumer without a
// reordering buffer of its own (the Puller still reassembles at the top
// level for anything that cares about final row order).
type chunkMapper struct {
	upstream Stream
	transform func(Chunk) (Chunk, error)
}

func (m *chunkMapper) Fetch(j *job.Job, wavefront int, consumer Consumer) {
	m.upstream.Fetch(j, wavefront, func(chunk Chunk, hasMore bool, err error) {
		if err != nil {
			consumer(Chunk{}, false, err)
			return
		}
		out, terr := m.transform(chunk)
		if terr != nil {
			consumer(Chunk{}, false, terr)
			return
		}
		consumer(out, hasMore, nil)
	})
}

// FilterTransformer drops rows that do not satisfy a predicate.
type FilterTransformer struct {
	chunkMapper
	Upstream  Stream
	Predicate expr.Expression
}

// NewFilterTransformer builds a Stream that yields only rows where
// predicate evaluates truthy.
func NewFilterTransformer(upstream Stream, predicate expr.Expression) *FilterTransformer {
	f := &FilterTransformer{Upstream: upstream, Predicate: predicate}
	f.chunkMapper = chunkMapper{upstream: upstream, transform: f.apply}
	return f
}

func (f *FilterTransformer) apply(c Chunk) (Chunk, error) {
	rows := make([]table.Row, 0, len(c.Rows))
	for _, row := range c.Rows {
		keep, _ := f.Predicate.Apply(expr.Context{Row: row}).AsBool()
		if keep {
			rows = append(rows, row)
		}
	}
	return Chunk{Rows: rows}, nil
}

func (f *FilterTransformer) Columns(j *job.Job) (table.Columns, error) { return f.Upstream.Columns(j) }
func (f *FilterTransformer) Clone() Stream {
	return NewFilterTransformer(f.Upstream.Clone(), f.Predicate)
}

// CalculateTransformer adds or overwrites one column with the result of
// evaluating an expression against each row.
type CalculateTransformer struct {
	chunkMapper
	Upstream Stream
	Target   table.Column
	Formula  expr.Expression
}

// NewCalculateTransformer builds a Stream that appends/replaces Target
// with Formula's value on every row.
func NewCalculateTransformer(upstream Stream, target table.Column, formula expr.Expression) *CalculateTransformer {
	c := &CalculateTransformer{Upstream: upstream, Target: target, Formula: formula}
	c.chunkMapper = chunkMapper{upstream: upstream, transform: c.apply}
	return c
}

func (c *CalculateTransformer) apply(chunk Chunk) (Chunk, error) {
	rows := make([]table.Row, len(chunk.Rows))
	for i, row := range chunk.Rows {
		v := c.Formula.Apply(expr.Context{Row: row})
		cols := row.Columns
		if !cols.Has(c.Target) {
			cols = table.NewColumns(append(cols.Slice(), c.Target)...)
		}
		values := make([]value.Value, cols.Len())
		for idx, col := range cols.Slice() {
			if col.Equal(c.Target) {
				values[idx] = v
				continue
			}
			values[idx] = row.Get(col)
		}
		rows[i] = table.NewRow(cols, values)
	}
	return Chunk{Rows: rows}, nil
}

func (c *CalculateTransformer) Columns(j *job.Job) (table.Columns, error) {
	cols, err := c.Upstream.Columns(j)
	if err != nil {
		return cols, err
	}
	if cols.Has(c.Target) {
		return cols, nil
	}
	return table.NewColumns(append(cols.Slice(), c.Target)...), nil
}

func (c *CalculateTransformer) Clone() Stream {
	return NewCalculateTransformer(c.Upstream.Clone(), c.Target, c.Formula)
}

// SelectTransformer projects rows onto a (possibly reordered, possibly
// narrower) subset of columns.
type SelectTransformer struct {
	chunkMapper
	Upstream Stream
	Selected table.Columns
}

// NewSelectTransformer builds a Stream that projects every row onto
// selected.
func NewSelectTransformer(upstream Stream, selected table.Columns) *SelectTransformer {
	s := &SelectTransformer{Upstream: upstream, Selected: selected}
	s.chunkMapper = chunkMapper{upstream: upstream, transform: s.apply}
	return s
}

func (s *SelectTransformer) apply(chunk Chunk) (Chunk, error) {
	rows := make([]table.Row, len(chunk.Rows))
	for i, row := range chunk.Rows {
		rows[i] = row.Project(s.Selected)
	}
	return Chunk{Rows: rows}, nil
}

func (s *SelectTransformer) Columns(j *job.Job) (table.Columns, error) { return s.Selected, nil }
func (s *SelectTransformer) Clone() Stream {
	return NewSelectTransformer(s.Upstream.Clone(), s.Selected)
}

// FlattenTransformer expands one packed column into multiple rows, one
// per item.
type FlattenTransformer struct {
	chunkMapper
	Upstream Stream
	Column   table.Column
}

// NewFlattenTransformer builds a Stream that emits one row per packed
// item in Column, leaving other columns duplicated across the expansion.
func NewFlattenTransformer(upstream Stream, column table.Column) *FlattenTransformer {
	f := &FlattenTransformer{Upstream: upstream, Column: column}
	f.chunkMapper = chunkMapper{upstream: upstream, transform: f.apply}
	return f
}

func (f *FlattenTransformer) apply(chunk Chunk) (Chunk, error) {
	var rows []table.Row
	for _, row := range chunk.Rows {
		packed := row.Get(f.Column)
		items := expr.UnpackString(packed.AsString())
		if len(items) == 0 {
			rows = append(rows, row)
			continue
		}
		for _, item := range items {
			values := make([]value.Value, row.Len())
			for i, col := range row.Columns.Slice() {
				if col.Equal(f.Column) {
					values[i] = value.String(item)
				} else {
					values[i] = row.At(i)
				}
			}
			rows = append(rows, table.NewRow(row.Columns, values))
		}
	}
	return Chunk{Rows: rows}, nil
}

func (f *FlattenTransformer) Columns(j *job.Job) (table.Columns, error) { return f.Upstream.Columns(j) }
func (f *FlattenTransformer) Clone() Stream {
	return NewFlattenTransformer(f.Upstream.Clone(), f.Column)
}
