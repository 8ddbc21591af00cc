package dialect_test

import (
	"testing"

	"github.com/pixelspark/warp/dialect"
	"github.com/pixelspark/warp/dialect/mssql"
	"github.com/pixelspark/warp/dialect/mysql"
	"github.com/pixelspark/warp/dialect/postgres"
	"github.com/stretchr/testify/assert"
)

func TestFragmentBasicSelect(t *testing.T) {
	f := dialect.NewFragment(mysql.New(), "`people`").
		Where("`age` > 18").
		Select("`name`")
	assert.Equal(t, "SELECT `name` FROM `people` WHERE `age` > 18", f.SQL())
}

func TestFragmentBackwardTransitionWrapsSubquery(t *testing.T) {
	f := dialect.NewFragment(mysql.New(), "`people`").
		Select("`name`").
		Where("`name` <> ''")
	sql := f.SQL()
	assert.Contains(t, sql, "WHERE")
	assert.Contains(t, sql, "SELECT `name` FROM `people`")
	assert.Contains(t, sql, ") AS")
}

func TestFragmentLimitOffsetPerDialect(t *testing.T) {
	lim, off := 10, 20
	mysqlFrag := dialect.NewFragment(mysql.New(), "t").Limit(&lim, &off)
	assert.Contains(t, mysqlFrag.SQL(), "LIMIT 10 OFFSET 20")

	pgFrag := dialect.NewFragment(postgres.New(), "t").Limit(&lim, &off)
	assert.Contains(t, pgFrag.SQL(), "LIMIT 10 OFFSET 20")

	mssqlFrag := dialect.NewFragment(mssql.New(), "t").Order("id ASC").Limit(&lim, &off)
	assert.Contains(t, mssqlFrag.SQL(), "OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY")
}
