// Package mssql implements dialect.Dialect for SQL Server, grounded on
// the denisenkom/go-mssqldb-backed warehouse. SQL Server has no LIMIT
// keyword; paging requires an ORDER BY plus OFFSET/FETCH. Neither
// sqldataset nor this dialect adds an ORDER BY of its own, so a
// fragment given Limit/Offset without an Order renders OFFSET/FETCH
// with no ORDER BY, which SQL Server rejects.
package mssql

import (
	"fmt"

	"github.com/pixelspark/warp/dialect"
)

type Dialect struct{ dialect.ANSI }

func New() Dialect { return Dialect{} }

func (Dialect) Name() string { return "mssql" }

func (Dialect) QuoteIdentifier(name string) string {
	return "[" + name + "]"
}

func (Dialect) LimitOffset(limit, offset *int) string {
	if limit == nil && offset == nil {
		return ""
	}
	off := 0
	if offset != nil {
		off = *offset
	}
	if limit == nil {
		return fmt.Sprintf("OFFSET %d ROWS", off)
	}
	return fmt.Sprintf("OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", off, *limit)
}
