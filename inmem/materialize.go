package inmem

import (
	"sort"
	"strconv"

	"github.com/pixelspark/warp/dataset"
	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
)

// Sort precomputes every row's ordering key concurrently via
// job.ConcurrentMap (the map phase), then performs a single sequential
// sort.SliceStable over the precomputed keys (the reduce phase) —
// the sort's comparator itself cannot be parallelized safely, but
// the expensive part (evaluating every Order's expression per row)
// can be.
func (d *RasterDataset) Sort(orders []expr.Order) dataset.Dataset {
	raster, err := d.Raster(job.New())
	if err != nil || raster.Len() == 0 {
		return d
	}
	rows := raster.Rows()
	j := job.New()
	keys, _ := job.ConcurrentMap(j, rows, 0, func(row table.Row) ([]value.Value, error) {
		key := make([]value.Value, len(orders))
		for oi, ord := range orders {
			key[oi] = ord.Expression.Apply(expr.Context{Row: row})
		}
		return key, nil
	})

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		for oi, ord := range orders {
			o := ord.Compare(ka[oi], kb[oi])
			if o != 0 {
				return o < 0
			}
		}
		return false
	})

	out := table.NewRaster(raster.Columns())
	for _, i := range idx {
		out.AddRow(rows[i].Values)
	}
	return New(out)
}

// Distinct deduplicates rows by the identical value of columns,
// keeping the first occurrence.
func (d *RasterDataset) Distinct(columns table.Columns) dataset.Dataset {
	raster, err := d.Raster(job.New())
	if err != nil {
		return d
	}
	seen := map[string]bool{}
	out := table.NewRaster(raster.Columns())
	rows := raster.Rows()
	for _, row := range rows {
		key := groupKey(row, columns)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.AddRow(row.Values)
	}
	return New(out)
}

func groupKey(row table.Row, columns table.Columns) string {
	var sb []byte
	for i := 0; i < columns.Len(); i++ {
		v := row.Get(columns.At(i))
		sb = append(sb, []byte(v.String())...)
		sb = append(sb, 0x1f)
	}
	return string(sb)
}

// Aggregate groups rows by groupBy and, per group, applies every
// Aggregation's Map expression then its Reducer — grouping itself is a
// single sequential pass (it must be, to assign rows to buckets), but
// the reduction over each bucket's mapped values runs concurrently
// across groups.
func (d *RasterDataset) Aggregate(groupBy table.Columns, aggregations []expr.Aggregation) dataset.Dataset {
	raster, err := d.Raster(job.New())
	if err != nil {
		return d
	}
	rows := raster.Rows()

	type bucket struct {
		key  []value.Value
		rows []table.Row
	}
	order := []string{}
	buckets := map[string]*bucket{}
	for _, row := range rows {
		key := make([]value.Value, groupBy.Len())
		for i := 0; i < groupBy.Len(); i++ {
			key[i] = row.Get(groupBy.At(i))
		}
		k := groupKey(row, groupBy)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{key: key}
			buckets[k] = b
			order = append(order, k)
		}
		b.rows = append(b.rows, row)
	}

	outCols := groupBy.Clone()
	for _, agg := range aggregations {
		outCols.Add(agg.Target)
	}
	out := table.NewRaster(outCols)

	buckList := make([]*bucket, len(order))
	for i, k := range order {
		buckList[i] = buckets[k]
	}
	results, _ := job.ConcurrentMap(job.New(), buckList, 0, func(b *bucket) ([]value.Value, error) {
		values := make([]value.Value, outCols.Len())
		copy(values, b.key)
		for _, agg := range aggregations {
			mapped := make([]value.Value, len(b.rows))
			for ri, row := range b.rows {
				mapped[ri] = agg.Map.Apply(expr.Context{Row: row})
			}
			idx := outCols.IndexOf(agg.Target)
			values[idx] = agg.Reduce.Apply(mapped)
		}
		return values, nil
	})
	for _, values := range results {
		out.AddRow(values)
	}
	return New(out)
}

// Union appends other's rows onto a copy of this dataset's rows, under
// the column-wise union of both schemas.
func (d *RasterDataset) Union(other dataset.Dataset) dataset.Dataset {
	left, err := d.Raster(job.New())
	if err != nil {
		return d
	}
	right, err := other.Raster(job.New())
	if err != nil {
		return d
	}
	cols := left.Columns().Union(right.Columns())
	out := table.NewRaster(cols)
	for _, row := range left.Rows() {
		out.AddRow(row.Project(cols).Values)
	}
	for _, row := range right.Rows() {
		out.AddRow(row.Project(cols).Values)
	}
	return New(out)
}

// Pivot groups rows by rowColumn, turns each distinct value of
// pivotColumn into its own output column, and fills cells by reducing
// valueColumn over the matching (rowColumn, pivotColumn) cell group.
func (d *RasterDataset) Pivot(rowColumn, pivotColumn, valueColumn table.Column, reducer *expr.Reducer) dataset.Dataset {
	raster, err := d.Raster(job.New())
	if err != nil {
		return d
	}
	rows := raster.Rows()

	var pivotValues []string
	seenPivot := map[string]bool{}
	type cellKey struct{ row, pivot string }
	cells := map[cellKey][]value.Value{}
	rowOrder := []string{}
	rowValue := map[string]value.Value{}
	seenRow := map[string]bool{}

	for _, row := range rows {
		rv := row.Get(rowColumn)
		pv := row.Get(pivotColumn)
		rk, pk := rv.String(), pv.String()
		if !seenRow[rk] {
			seenRow[rk] = true
			rowOrder = append(rowOrder, rk)
			rowValue[rk] = rv
		}
		if !seenPivot[pk] {
			seenPivot[pk] = true
			pivotValues = append(pivotValues, pk)
		}
		ck := cellKey{rk, pk}
		cells[ck] = append(cells[ck], row.Get(valueColumn))
	}

	cols := table.NewColumns(rowColumn)
	for _, pv := range pivotValues {
		cols.Add(table.Column(pv))
	}
	out := table.NewRaster(cols)
	for _, rk := range rowOrder {
		values := make([]value.Value, cols.Len())
		values[0] = rowValue[rk]
		for ci, pv := range pivotValues {
			if vs, ok := cells[cellKey{rk, pv}]; ok {
				values[ci+1] = reducer.Apply(vs)
			} else {
				values[ci+1] = value.Empty()
			}
		}
		out.AddRow(values)
	}
	return New(out)
}

// Transpose swaps rows and columns: the first source column becomes
// the corner header (its own name carried through unchanged) and the
// remaining source columns become output rows named after themselves,
// while each source row becomes an output column named after its cell
// in that first source column. This makes Transpose involutive:
// transposing twice reconstructs the original columns and rows, since
// the first column is never also re-emitted as a data row.
func (d *RasterDataset) Transpose() dataset.Dataset {
	raster, err := d.Raster(job.New())
	if err != nil {
		return d
	}
	srcCols := raster.Columns()
	if srcCols.Len() == 0 {
		return d
	}
	rows := raster.Rows()

	cols := table.NewColumns(srcCols.At(0))
	for i, row := range rows {
		name := row.At(0).String()
		if name == "" {
			name = "col" + strconv.Itoa(i)
		}
		cols.Add(table.Column(name))
	}

	out := table.NewRaster(cols)
	for ci := 1; ci < srcCols.Len(); ci++ {
		values := make([]value.Value, cols.Len())
		values[0] = value.String(string(srcCols.At(ci)))
		for ri, row := range rows {
			values[ri+1] = row.At(ci)
		}
		out.AddRow(values)
	}
	return New(out)
}
