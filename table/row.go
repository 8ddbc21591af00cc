package table

import "github.com/pixelspark/warp/value"

// Row pairs an ordered sequence of values with the Columns header
// they belong to. A row may be shorter than the header; missing
// trailing cells read as Empty, never Invalid.
type Row struct {
	Columns Columns
	Values  []value.Value
}

// NewRow builds a row, trusting values.len == columns.Len() per the
// invariant; shorter value slices are legal (missing trailing cells).
func NewRow(columns Columns, values []value.Value) Row {
	return Row{Columns: columns, Values: values}
}

// Get returns the value for a column by case-insensitive name. Returns
// Empty, not Invalid, when the column is unknown or past the end of
// Values.
func (r Row) Get(c Column) value.Value {
	i := r.Columns.IndexOf(c)
	if i < 0 {
		return value.Empty()
	}
	return r.At(i)
}

// At returns the value at a bounds-checked index; out-of-range or
// past-the-end-of-Values reads as Empty.
func (r Row) At(i int) value.Value {
	if i < 0 || i >= len(r.Values) {
		return value.Empty()
	}
	return r.Values[i]
}

// Len is the header's column count (not necessarily len(Values)).
func (r Row) Len() int { return r.Columns.Len() }

// Project returns a row with its values mapped onto the columns
// of a possibly different (e.g. post-select) schema: missing columns
// become Empty.
func (r Row) Project(cols Columns) Row {
	values := make([]value.Value, cols.Len())
	for i := 0; i < cols.Len(); i++ {
		values[i] = r.Get(cols.At(i))
	}
	return Row{Columns: cols, Values: values}
}

// Clone returns a row with its own backing value slice.
func (r Row) Clone() Row {
	values := make([]value.Value, len(r.Values))
	copy(values, r.Values)
	return Row{Columns: r.Columns, Values: values}
}

// CommonalitiesOf returns the subset of cols for which every row in
// rows carries the same value — used by the mutation planner to
// infer primary-key candidates for row edits.
func CommonalitiesOf(rows []Row, cols Columns) Columns {
	var out Columns
	if len(rows) == 0 {
		return out
	}
	for i := 0; i < cols.Len(); i++ {
		c := cols.At(i)
		first := rows[0].Get(c)
		same := true
		for _, r := range rows[1:] {
			if !first.IdenticalTo(r.Get(c)) {
				same = false
				break
			}
		}
		if same {
			out.Add(c)
		}
	}
	return out
}
