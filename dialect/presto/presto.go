// Package presto implements dialect.Dialect for Presto/Trino. No
// database/sql driver for Presto is wired into the warehouse layer (the
// retrieved example pack carries no Presto Go client); this dialect
// exists to exercise the dialect/Fragment abstraction against a
// backend whose LIMIT/OFFSET and quoting rules genuinely differ, and is
// covered only by literal-SQL-string unit tests, never by a live
// warehouse.
package presto

import (
	"fmt"
	"strings"

	"github.com/pixelspark/warp/dialect"
)

type Dialect struct{ dialect.ANSI }

func New() Dialect { return Dialect{} }

func (Dialect) Name() string { return "presto" }

func (Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// LimitOffset: Presto's OFFSET clause requires a LIMIT to accompany it
// and does not support an unbounded OFFSET-only form, so an OFFSET
// without a Limit falls back to a very large LIMIT, same as MySQL.
func (Dialect) LimitOffset(limit, offset *int) string {
	switch {
	case limit == nil && offset == nil:
		return ""
	case offset == nil:
		return fmt.Sprintf("LIMIT %d", *limit)
	case limit == nil:
		return fmt.Sprintf("OFFSET %d LIMIT %d", *offset, int64(1<<31))
	default:
		return fmt.Sprintf("OFFSET %d LIMIT %d", *offset, *limit)
	}
}
