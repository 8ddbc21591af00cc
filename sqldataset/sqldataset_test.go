package sqldataset

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelspark/warp/dialect"
	"github.com/pixelspark/warp/dialect/sqlite"
	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/inmem"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
)

// fakeWarehouse records the last SQL it was asked to run and always
// answers with a fixed raster, so Dataset chains can be exercised
// without a live database/sql connection.
type fakeWarehouse struct {
	dialect  dialect.Dialect
	raster   *table.Raster
	lastSQL  string
	colsByTbl map[string]table.Columns
}

func (f *fakeWarehouse) Dialect() dialect.Dialect { return f.dialect }

func (f *fakeWarehouse) Query(ctx context.Context, sql string) (*table.Raster, error) {
	f.lastSQL = sql
	return f.raster, nil
}

func (f *fakeWarehouse) Columns(ctx context.Context, tbl string) (table.Columns, error) {
	return f.colsByTbl[tbl], nil
}

func (f *fakeWarehouse) Close() error { return nil }

func newFakeWarehouse() *fakeWarehouse {
	cols := table.NewColumns("id", "name", "amount")
	raster := table.NewRasterWithRows(cols, [][]value.Value{
		{value.Int(1), value.String("a"), value.Int(10)},
		{value.Int(2), value.String("b"), value.Int(20)},
	})
	return &fakeWarehouse{
		dialect:   sqlite.New(),
		raster:    raster,
		colsByTbl: map[string]table.Columns{"items": cols},
	}
}

func TestSQLDatasetRasterRendersSelect(t *testing.T) {
	fw := newFakeWarehouse()
	ds := New(fw, `"items"`, fw.colsByTbl["items"])

	raster, err := ds.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 2, raster.Len())
	assert.True(t, strings.Contains(fw.lastSQL, `SELECT`))
	assert.True(t, strings.Contains(fw.lastSQL, `"items"`))
}

func TestSQLDatasetFilterPushesDownToWhere(t *testing.T) {
	fw := newFakeWarehouse()
	ds := New(fw, `"items"`, fw.colsByTbl["items"])

	filtered := ds.Filter(expr.NewBinary(expr.OpEq, expr.NewSibling("name"), expr.NewLiteral(value.String("a"))))
	_, err := filtered.Raster(job.New())
	require.NoError(t, err)
	assert.True(t, strings.Contains(fw.lastSQL, "WHERE"))
	assert.True(t, strings.Contains(fw.lastSQL, `"name"`))

	// still a SQLDataset, not a fallback to inmem
	_, ok := filtered.(*SQLDataset)
	assert.True(t, ok)
}

func TestSQLDatasetCalculatePushesDownRepresentableFormula(t *testing.T) {
	fw := newFakeWarehouse()
	ds := New(fw, `"items"`, fw.colsByTbl["items"])

	calculated := ds.Calculate("doubled", expr.NewBinary(expr.OpMul, expr.NewSibling("amount"), expr.NewLiteral(value.Int(2))))

	// representable arithmetic stays pushed down, not a fallback
	_, ok := calculated.(*SQLDataset)
	assert.True(t, ok)

	raster, err := calculated.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 2, raster.Len())
	assert.True(t, strings.Contains(fw.lastSQL, "SELECT"))
	assert.True(t, strings.Contains(fw.lastSQL, `"doubled"`))
	assert.True(t, strings.Contains(fw.lastSQL, `"amount"`))
}

func TestSQLDatasetCalculateFallsBackWhenUnrepresentable(t *testing.T) {
	fw := newFakeWarehouse()
	ds := New(fw, `"items"`, fw.colsByTbl["items"])

	// Foreign cannot be rendered to SQL text at all, so this still
	// falls back to in-memory evaluation.
	calculated := ds.Calculate("x", expr.NewForeign("amount"))

	_, ok := calculated.(*inmem.RasterDataset)
	assert.True(t, ok)

	raster, err := calculated.Raster(job.New())
	require.NoError(t, err)
	assert.Equal(t, 2, raster.Len())
}

func TestSQLDatasetCalculateThenLimitWrapsAsSubquery(t *testing.T) {
	fw := newFakeWarehouse()
	ds := New(fw, `"items"`, fw.colsByTbl["items"])

	calculated := ds.Calculate("doubled", expr.NewBinary(expr.OpMul, expr.NewSibling("amount"), expr.NewLiteral(value.Int(2))))
	limited := calculated.Limit(5)

	_, ok := limited.(*SQLDataset)
	assert.True(t, ok)

	_, err := limited.Raster(job.New())
	require.NoError(t, err)
	assert.True(t, strings.Contains(fw.lastSQL, `"doubled"`))
	assert.True(t, strings.Contains(fw.lastSQL, "LIMIT 5"))
}

func TestSQLDatasetAggregateProjectionSurvivesRaster(t *testing.T) {
	fw := newFakeWarehouse()
	ds := New(fw, `"items"`, fw.colsByTbl["items"])

	aggregated := ds.Aggregate(table.NewColumns("name"), []expr.Aggregation{
		{Map: expr.NewSibling("amount"), Reduce: expr.Reducers["sum"], Target: "total"},
	})

	_, err := aggregated.Raster(job.New())
	require.NoError(t, err)
	// the aggregate's own select list (name, SUM(amount) AS total) must
	// survive Raster, not get clobbered back to the base column list.
	assert.True(t, strings.Contains(fw.lastSQL, `"total"`))
	assert.False(t, strings.Contains(fw.lastSQL, `"id"`))
}

func TestSQLDatasetLimitOffset(t *testing.T) {
	fw := newFakeWarehouse()
	ds := New(fw, `"items"`, fw.colsByTbl["items"])

	_, err := ds.Limit(5).Offset(2).Raster(job.New())
	require.NoError(t, err)
	assert.Contains(t, fw.lastSQL, "LIMIT 5")
	assert.Contains(t, fw.lastSQL, "OFFSET 2")

	fw2 := newFakeWarehouse()
	ds2 := New(fw2, `"items"`, fw2.colsByTbl["items"])
	_, err = ds2.Offset(2).Limit(5).Raster(job.New())
	require.NoError(t, err)
	assert.Contains(t, fw2.lastSQL, "LIMIT 5")
	assert.Contains(t, fw2.lastSQL, "OFFSET 2")
}
