package inmem

import (
	"testing"

	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRaster() *table.Raster {
	cols := table.NewColumns("name", "dept", "salary")
	r := table.NewRaster(cols)
	r.AddRow([]value.Value{value.String("alice"), value.String("eng"), value.Int(100)})
	r.AddRow([]value.Value{value.String("bob"), value.String("eng"), value.Int(200)})
	r.AddRow([]value.Value{value.String("carol"), value.String("sales"), value.Int(150)})
	return r
}

func TestFilterAndCalculateChain(t *testing.T) {
	d := New(sampleRaster())
	pred := expr.Binary{Op: expr.OpEq, LHS: expr.Sibling{Column: "dept"}, RHS: expr.Literal{Value: value.String("eng")}}
	bonus := expr.Binary{Op: expr.OpMul, LHS: expr.Sibling{Column: "salary"}, RHS: expr.Literal{Value: value.Double(1.1)}}
	out, err := d.Filter(pred).Calculate("bonus", bonus).Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestAggregateSum(t *testing.T) {
	d := New(sampleRaster())
	groupBy := table.NewColumns("dept")
	sum := expr.Aggregation{Map: expr.Sibling{Column: "salary"}, Reduce: expr.Reducers["sum"], Target: "total"}
	out, err := d.Aggregate(groupBy, []expr.Aggregation{sum}).Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestSortDescending(t *testing.T) {
	d := New(sampleRaster())
	orders := []expr.Order{{Expression: expr.Sibling{Column: "salary"}, Numeric: true, Ascending: false}}
	out, err := d.Sort(orders).Raster(job.New())
	require.NoError(t, err)
	top := out.Row(0)
	salary, _ := top.Get("salary").AsInt()
	assert.Equal(t, int64(200), salary)
}

func TestDistinctByColumn(t *testing.T) {
	d := New(sampleRaster())
	out, err := d.Distinct(table.NewColumns("dept")).Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestTransposeRoundTripsShape(t *testing.T) {
	d := New(sampleRaster())
	out, err := d.Transpose().Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, 4, out.Columns().Len())
}
