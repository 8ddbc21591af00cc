package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
)

func TestParseFilter(t *testing.T) {
	col, val, ok := parseFilter("status = active")
	assert.True(t, ok)
	assert.Equal(t, table.Column("status"), col)
	assert.Equal(t, value.String("active"), val)

	col, val, ok = parseFilter("age=42")
	assert.True(t, ok)
	assert.Equal(t, table.Column("age"), col)
	assert.Equal(t, value.Int(42), val)

	_, _, ok = parseFilter("no-equals-here")
	assert.False(t, ok)
}

func TestSplitColumns(t *testing.T) {
	cols := splitColumns("a, b,c")
	assert.Equal(t, 3, cols.Len())
	assert.Equal(t, table.Column("a"), cols.At(0))
	assert.Equal(t, table.Column("b"), cols.At(1))
	assert.Equal(t, table.Column("c"), cols.At(2))

	assert.Equal(t, 0, splitColumns("").Len())
}
