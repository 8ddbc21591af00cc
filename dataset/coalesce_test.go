package dataset

import (
	"testing"

	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/inmem"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rasterFixture() *table.Raster {
	cols := table.NewColumns("n")
	r := table.NewRaster(cols)
	for i := 0; i < 20; i++ {
		r.AddRow([]value.Value{value.Int(int64(i))})
	}
	return r
}

func TestCoalescedFusesAdjacentFilters(t *testing.T) {
	base := inmem.New(rasterFixture())
	c := Coalesce(base)
	gt5 := expr.Binary{Op: expr.OpGt, LHS: expr.Sibling{Column: "n"}, RHS: expr.Literal{Value: value.Int(5)}}
	lt10 := expr.Binary{Op: expr.OpLt, LHS: expr.Sibling{Column: "n"}, RHS: expr.Literal{Value: value.Int(10)}}
	fused := c.Filter(gt5).Filter(lt10).(*Coalesced)
	assert.NotNil(t, fused.pendingPred)
	out, err := fused.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
}

func TestCoalescedFusesAdjacentSelects(t *testing.T) {
	cols := table.NewColumns("a", "b", "c")
	r := table.NewRaster(cols)
	r.AddRow([]value.Value{value.Int(1), value.Int(2), value.Int(3)})
	base := inmem.New(r)
	c := Coalesce(base)
	fused := c.Select(table.NewColumns("a", "b")).Select(table.NewColumns("b", "c")).(*Coalesced)
	require.NotNil(t, fused.pendingSel)
	assert.Equal(t, 1, fused.pendingSel.Len())
	out, err := fused.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Columns().Len())
}

func TestCoalescedFusesLimitToMin(t *testing.T) {
	base := inmem.New(rasterFixture())
	c := Coalesce(base)
	fused := c.Limit(10).Limit(3).Limit(7).(*Coalesced)
	require.NotNil(t, fused.pendingLimit)
	assert.Equal(t, 3, *fused.pendingLimit)
	out, err := fused.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
}

func TestCoalescedFusesOffsetToSum(t *testing.T) {
	base := inmem.New(rasterFixture())
	c := Coalesce(base)
	fused := c.Offset(2).Offset(3).(*Coalesced)
	require.NotNil(t, fused.pendingOffset)
	assert.Equal(t, 5, *fused.pendingOffset)
	out, err := fused.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 15, out.Len())
	assert.Equal(t, value.Int(5), out.Row(0).At(0))
}

func TestCoalescedDistinctIdempotent(t *testing.T) {
	cols := table.NewColumns("a")
	r := table.NewRaster(cols)
	r.AddRow([]value.Value{value.Int(1)})
	r.AddRow([]value.Value{value.Int(1)})
	base := inmem.New(r)
	c := Coalesce(base)
	fused := c.Distinct(table.NewColumns("a")).Distinct(table.NewColumns("a")).(*Coalesced)
	require.NotNil(t, fused.pendingDistinct)
	assert.Equal(t, 1, fused.pendingDistinct.Len())
	out, err := fused.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestCoalescedTransposeCancels(t *testing.T) {
	base := inmem.New(rasterFixture())
	c := Coalesce(base)
	fused := c.Transpose().Transpose().(*Coalesced)
	assert.False(t, fused.pendingTranspose)
	out, err := fused.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, rasterFixture().Len(), out.Len())
}

func TestCoalescedComposesSorts(t *testing.T) {
	cols := table.NewColumns("a", "b")
	r := table.NewRaster(cols)
	r.AddRow([]value.Value{value.Int(1), value.Int(2)})
	r.AddRow([]value.Value{value.Int(1), value.Int(1)})
	r.AddRow([]value.Value{value.Int(2), value.Int(5)})
	base := inmem.New(r)
	c := Coalesce(base)
	byB := []expr.Order{{Expression: expr.Sibling{Column: "b"}, Ascending: true}}
	byA := []expr.Order{{Expression: expr.Sibling{Column: "a"}, Ascending: true}}
	fused := c.Sort(byB).Sort(byA).(*Coalesced)
	require.Len(t, fused.pendingSort, 2)
	out, err := fused.Raster(job.New())
	require.NoError(t, err)
	// sorted by a primary, b as the tie-break carried over from the
	// earlier stable sort
	assert.Equal(t, value.Int(1), out.Row(0).At(1))
	assert.Equal(t, value.Int(2), out.Row(1).At(1))
	assert.Equal(t, value.Int(5), out.Row(2).At(1))
}

func TestCoalescedMergesCalculates(t *testing.T) {
	cols := table.NewColumns("a")
	r := table.NewRaster(cols)
	r.AddRow([]value.Value{value.Int(2)})
	base := inmem.New(r)
	c := Coalesce(base)
	doubled := expr.Binary{Op: expr.OpMul, LHS: expr.Sibling{Column: "a"}, RHS: expr.Literal{Value: value.Int(2)}}
	tripled := expr.Binary{Op: expr.OpMul, LHS: expr.Sibling{Column: "a"}, RHS: expr.Literal{Value: value.Int(3)}}
	fused := c.Calculate("b", doubled).Calculate("c", tripled).(*Coalesced)
	require.Len(t, fused.pendingCalc, 2)
	out, err := fused.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, value.Double(4), out.Row(0).Get("b"))
	assert.Equal(t, value.Double(6), out.Row(0).Get("c"))
}

func TestCoalescedReordersFilterAheadOfUnrelatedCalculate(t *testing.T) {
	cols := table.NewColumns("a", "b")
	r := table.NewRaster(cols)
	r.AddRow([]value.Value{value.Int(1), value.Int(100)})
	r.AddRow([]value.Value{value.Int(2), value.Int(200)})
	base := inmem.New(r)
	c := Coalesce(base)
	doubled := expr.Binary{Op: expr.OpMul, LHS: expr.Sibling{Column: "b"}, RHS: expr.Literal{Value: value.Int(2)}}
	aGt1 := expr.Binary{Op: expr.OpGt, LHS: expr.Sibling{Column: "a"}, RHS: expr.Literal{Value: value.Int(1)}}

	calculated := c.Calculate("doubled", doubled)
	result := calculated.Filter(aGt1).(*Coalesced)

	// the filter doesn't read "doubled", so it was reordered ahead of
	// the calculate rather than appended after it.
	assert.NotNil(t, result.pendingPred)
	require.Len(t, result.pendingCalc, 1)

	out, err := result.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, value.Double(400), out.Row(0).Get("doubled"))
}

func TestCoalescedFlushesWhenFilterDependsOnCalculate(t *testing.T) {
	cols := table.NewColumns("a")
	r := table.NewRaster(cols)
	r.AddRow([]value.Value{value.Int(1)})
	r.AddRow([]value.Value{value.Int(5)})
	base := inmem.New(r)
	c := Coalesce(base)
	doubled := expr.Binary{Op: expr.OpMul, LHS: expr.Sibling{Column: "a"}, RHS: expr.Literal{Value: value.Int(2)}}
	bigDoubled := expr.Binary{Op: expr.OpGt, LHS: expr.Sibling{Column: "doubled"}, RHS: expr.Literal{Value: value.Int(5)}}

	calculated := c.Calculate("doubled", doubled)
	result := calculated.Filter(bigDoubled).(*Coalesced)

	// the filter reads "doubled" so it could not be reordered ahead of
	// the calculate that produces it: the calculate must have flushed.
	assert.Empty(t, result.pendingCalc)
	assert.NotNil(t, result.pendingPred)

	out, err := result.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, value.Double(10), out.Row(0).Get("doubled"))
}
