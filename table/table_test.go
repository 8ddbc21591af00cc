package table

import (
	"testing"

	"github.com/pixelspark/warp/value"
	"github.com/stretchr/testify/assert"
)

func TestMissingColumnReadsEmpty(t *testing.T) {
	cols := NewColumns("city", "sales")
	row := NewRow(cols, []value.Value{value.String("A")}) // shorter than header
	assert.Equal(t, value.String("A"), row.Get("city"))
	assert.True(t, row.Get("sales").IsEmpty())
	assert.True(t, row.Get("missing").IsEmpty())
}

func TestColumnLookupIsCaseInsensitive(t *testing.T) {
	cols := NewColumns("City")
	assert.True(t, cols.Has("city"))
	assert.Equal(t, 0, cols.IndexOf("CITY"))
}

func TestRasterRowPadsShortRows(t *testing.T) {
	cols := NewColumns("a", "b", "c")
	r := NewRaster(cols)
	r.AddRow([]value.Value{value.Int(1)})
	row := r.Row(0)
	assert.Equal(t, value.Int(1), row.Get("a"))
	assert.True(t, row.Get("b").IsEmpty())
	assert.True(t, row.Get("c").IsEmpty())
}

func TestCommonalitiesOf(t *testing.T) {
	cols := NewColumns("id", "name")
	rows := []Row{
		NewRow(cols, []value.Value{value.Int(1), value.String("a")}),
		NewRow(cols, []value.Value{value.Int(1), value.String("b")}),
	}
	common := CommonalitiesOf(rows, cols)
	assert.True(t, common.Has("id"))
	assert.False(t, common.Has("name"))
}

func TestColumnsIntersectPreservesLeftOrder(t *testing.T) {
	a := NewColumns("x", "y", "z")
	b := NewColumns("z", "x")
	got := a.Intersect(b)
	assert.Equal(t, []Column{"x", "z"}, got.Slice())
}
