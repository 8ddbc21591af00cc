package stream

import (
	"context"
	"testing"

	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberRaster(n int) *table.Raster {
	cols := table.NewColumns("n")
	r := table.NewRaster(cols)
	for i := 0; i < n; i++ {
		r.AddRow([]value.Value{value.Int(int64(i))})
	}
	return r
}

func pull(t *testing.T, s Stream) *table.Raster {
	t.Helper()
	p := NewPuller(4)
	out, err := p.Pull(context.Background(), job.New(), s)
	require.NoError(t, err)
	return out
}

func TestRasterStreamRoundTrips(t *testing.T) {
	src := numberRaster(700)
	out := pull(t, NewRasterStream(src))
	assert.Equal(t, 700, out.Len())
}

func TestFilterTransformer(t *testing.T) {
	src := numberRaster(10)
	pred := expr.Binary{Op: expr.OpGte, LHS: expr.Sibling{Column: "n"}, RHS: expr.Literal{Value: value.Int(5)}}
	out := pull(t, NewFilterTransformer(NewRasterStream(src), pred))
	assert.Equal(t, 5, out.Len())
}

func TestLimitTransformer(t *testing.T) {
	src := numberRaster(1000)
	out := pull(t, NewLimitTransformer(NewRasterStream(src), 10))
	assert.Equal(t, 10, out.Len())
}

func TestOffsetTransformer(t *testing.T) {
	src := numberRaster(10)
	out := pull(t, NewOffsetTransformer(NewRasterStream(src), 7))
	assert.Equal(t, 3, out.Len())
}

func TestCalculateTransformer(t *testing.T) {
	src := numberRaster(3)
	formula := expr.Binary{Op: expr.OpMul, LHS: expr.Sibling{Column: "n"}, RHS: expr.Literal{Value: value.Int(2)}}
	out := pull(t, NewCalculateTransformer(NewRasterStream(src), "doubled", formula))
	row := out.Row(1)
	assert.Equal(t, int64(2), mustRowInt(row, "doubled"))
}

func TestRandomTransformerSampleSize(t *testing.T) {
	src := numberRaster(100)
	out := pull(t, NewRandomTransformer(NewRasterStream(src), 10))
	assert.Equal(t, 10, out.Len())
}

func mustRowInt(r table.Row, col table.Column) int64 {
	i, _ := r.Get(col).AsInt()
	return i
}
