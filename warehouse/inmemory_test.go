package warehouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
)

func TestInMemorySeedAndQuery(t *testing.T) {
	w := NewInMemory(nil)
	cols := table.NewColumns("id", "name")
	raster := table.NewRasterWithRows(cols, [][]value.Value{
		{value.Int(1), value.String("a")},
	})
	w.Seed("people", raster)

	gotCols, err := w.Columns(context.Background(), "people")
	require.NoError(t, err)
	assert.Equal(t, 2, gotCols.Len())

	got, err := w.Query(context.Background(), "SELECT anything")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestInMemoryUnseededTableReturnsEmpty(t *testing.T) {
	w := NewInMemory(nil)
	cols, err := w.Columns(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, cols.Len())
}
