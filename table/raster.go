package table

import "github.com/pixelspark/warp/value"

// Raster is an ordered, in-memory sequence of rows sharing a Column
// header. It is mutable only during construction; Freeze signals that
// no further mutation will occur, matching the "read_only flag" in
// the data model. Rasters are owned by whichever RasterDataset
// produced them — callers should treat a frozen Raster as immutable
// and Clone before mutating further.
type Raster struct {
	columns  Columns
	rows     [][]value.Value
	readOnly bool
}

// NewRaster builds an empty, writable raster with the given header.
func NewRaster(columns Columns) *Raster {
	return &Raster{columns: columns}
}

// NewRasterWithRows builds a raster from already-materialized rows.
// The rows are not copied.
func NewRasterWithRows(columns Columns, rows [][]value.Value) *Raster {
	return &Raster{columns: columns, rows: rows}
}

func (r *Raster) Columns() Columns { return r.columns }

func (r *Raster) Len() int { return len(r.rows) }

func (r *Raster) ReadOnly() bool { return r.readOnly }

// Freeze marks the raster read-only. Idempotent.
func (r *Raster) Freeze() { r.readOnly = true }

// AddRow appends a row of raw values (which may be shorter than the
// header). Panics if the raster is frozen, matching "Rasters are
// mutable only during construction".
func (r *Raster) AddRow(values []value.Value) {
	if r.readOnly {
		panic("warp: AddRow on a read-only raster")
	}
	r.rows = append(r.rows, values)
}

// Row materializes row i as a full-width Row, padding missing
// trailing cells with Empty.
func (r *Raster) Row(i int) Row {
	raw := r.rows[i]
	values := make([]value.Value, r.columns.Len())
	for j := range values {
		if j < len(raw) {
			values[j] = raw[j]
		} else {
			values[j] = value.Empty()
		}
	}
	return Row{Columns: r.columns, Values: values}
}

// Subscript returns the value at (row, col), Empty when col is past
// the row's stored width.
func (r *Raster) Subscript(rowIdx, col int) value.Value {
	raw := r.rows[rowIdx]
	if col >= len(raw) {
		return value.Empty()
	}
	return raw[col]
}

// Rows returns every materialized row. Intended for evaluators that
// need to iterate once; callers should not mutate the returned rows'
// backing arrays on a frozen raster.
func (r *Raster) Rows() []Row {
	out := make([]Row, r.Len())
	for i := range out {
		out[i] = r.Row(i)
	}
	return out
}

// Clone returns a deep, writable copy.
func (r *Raster) Clone() *Raster {
	rows := make([][]value.Value, len(r.rows))
	for i, raw := range r.rows {
		cp := make([]value.Value, len(raw))
		copy(cp, raw)
		rows[i] = cp
	}
	return &Raster{columns: r.columns, rows: rows}
}
